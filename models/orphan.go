package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrphanAsset is a remote image that is no longer referenced by any
// document but could not be deleted from the gateway.
type OrphanAsset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL       string             `bson:"url" json:"url"`
	Reason    string             `bson:"reason" json:"reason"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	LastError string             `bson:"lastError,omitempty" json:"lastError,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
