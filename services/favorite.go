package services

import (
	"context"

	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

type FavoriteService struct {
	favorites store.FavoriteStore
	props     store.PropertyStore
}

func NewFavoriteService(stores store.Stores) *FavoriteService {
	return &FavoriteService{favorites: stores.Favorites, props: stores.Properties}
}

// Add saves propertyID to the user's favorites. The unique (user, property)
// index rejects duplicates.
func (s *FavoriteService) Add(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	uid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(propertyID, "property")
	if err != nil {
		return nil, err
	}
	if _, err := s.props.FindByID(ctx, pid); err != nil {
		return nil, err
	}

	fav := &models.Favorite{UserID: uid, PropertyID: pid}
	if err := s.favorites.Add(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

// Remove is a no-op when the favorite does not exist.
func (s *FavoriteService) Remove(ctx context.Context, userID, propertyID string) error {
	uid, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	pid, err := parseID(propertyID, "property")
	if err != nil {
		return err
	}
	return s.favorites.Remove(ctx, uid, pid)
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.FavoriteWithProperty, error) {
	uid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	favs, err := s.favorites.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []models.FavoriteWithProperty{}
	}
	return favs, nil
}
