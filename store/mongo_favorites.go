package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/gharbari/backend/models"
)

type mongoFavorites struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoFavorites) Add(ctx context.Context, f *models.Favorite) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = s.now()
	_, err := s.coll.InsertOne(ctx, f)
	return writeErr(err, "Already in favorites")
}

func (s *mongoFavorites) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"user": userID, "property": propertyID})
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}

func (s *mongoFavorites) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.FavoriteWithProperty, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         PropertiesCollection,
			"localField":   "property",
			"foreignField": "_id",
			"as":           "property",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$property", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := []models.FavoriteWithProperty{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}
	return favorites, nil
}
