package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	PropertyID primitive.ObjectID `bson:"property" json:"property"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// FavoriteWithProperty is a favorite joined with its listing.
type FavoriteWithProperty struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Property  *Property          `bson:"property" json:"property"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
