package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

type LocationService struct {
	locations store.LocationStore
}

func NewLocationService(stores store.Stores) *LocationService {
	return &LocationService{locations: stores.Locations}
}

func (s *LocationService) List(ctx context.Context, f store.LocationFilter) ([]models.Location, error) {
	f.Province = strings.TrimSpace(f.Province)
	f.District = strings.TrimSpace(f.District)
	f.Municipality = strings.TrimSpace(f.Municipality)
	out, err := s.locations.List(ctx, f)
	if out == nil && err == nil {
		out = []models.Location{}
	}
	return out, err
}

func (s *LocationService) Create(ctx context.Context, l models.Location) (*models.Location, error) {
	l.ID = primitive.NilObjectID
	l.Province = strings.TrimSpace(l.Province)
	l.District = strings.TrimSpace(l.District)
	l.Municipality = strings.TrimSpace(l.Municipality)
	l.Street = strings.TrimSpace(l.Street)
	switch {
	case l.Province == "":
		return nil, errs.Validation("Province is required")
	case l.District == "":
		return nil, errs.Validation("District is required")
	case l.Municipality == "":
		return nil, errs.Validation("Municipality is required")
	case l.Ward < 1:
		return nil, errs.Validation("Ward must be a positive integer")
	}
	if err := s.locations.Create(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LocationService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "location")
	if err != nil {
		return err
	}
	return s.locations.Delete(ctx, oid)
}
