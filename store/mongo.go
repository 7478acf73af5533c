package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/gharbari/backend/errs"
)

const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
	FavoritesCollection  = "favorites"
	InquiriesCollection  = "inquiries"
	ReviewsCollection    = "reviews"
	TeamCollection       = "teams"
	BlogsCollection      = "blogs"
	FAQsCollection       = "faqs"
	LocationsCollection  = "locations"
	OrphansCollection    = "orphan_assets"
)

// Mongo hands out collection-backed stores for one database.
type Mongo struct {
	db  *mongo.Database
	now func() time.Time
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db, now: time.Now}
}

func (m *Mongo) Stores() Stores {
	return Stores{
		Properties: &mongoProperties{coll: m.db.Collection(PropertiesCollection), now: m.now},
		Users:      &mongoUsers{coll: m.db.Collection(UsersCollection), now: m.now},
		Favorites:  &mongoFavorites{coll: m.db.Collection(FavoritesCollection), now: m.now},
		Inquiries:  &mongoInquiries{coll: m.db.Collection(InquiriesCollection), now: m.now},
		Reviews:    &mongoReviews{coll: m.db.Collection(ReviewsCollection), now: m.now},
		Team:       &mongoTeam{coll: m.db.Collection(TeamCollection), now: m.now},
		Blogs:      &mongoBlogs{coll: m.db.Collection(BlogsCollection), now: m.now},
		FAQs:       &mongoFAQs{coll: m.db.Collection(FAQsCollection), now: m.now},
		Locations:  &mongoLocations{coll: m.db.Collection(LocationsCollection)},
		Orphans:    &mongoOrphans{coll: m.db.Collection(OrphansCollection), now: m.now},
	}
}

// EnsureIndexes creates the unique indexes the services rely on for
// uniqueness under concurrent writes.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "emailVerificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		PropertiesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "datePosted", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "price", Value: 1}}},
		},
		FavoritesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "property", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		BlogsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		InquiriesCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range specs {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
		slog.Debug("Indexes ensured", slog.String("collection", name), slog.Int("count", len(models)))
	}
	return nil
}

// notFound maps mongo.ErrNoDocuments to a NotFound error.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound(what + " not found")
	}
	return fmt.Errorf("loading %s: %w", what, err)
}

// writeErr maps a duplicate-key violation to a Validation error.
func writeErr(err error, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &errs.Error{Kind: errs.KindValidation, Message: duplicateMsg, Err: err}
	}
	return err
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
