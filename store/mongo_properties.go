package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/dcode-github/gharbari/backend/models"
)

const duplicateSlugMsg = "A property with this slug already exists"

type mongoProperties struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoProperties) Create(ctx context.Context, p *models.Property) error {
	now := s.now()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.DatePosted.IsZero() {
		p.DatePosted = now
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.coll.InsertOne(ctx, p)
	return writeErr(err, duplicateSlugMsg)
}

func (s *mongoProperties) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, "Property")
	}
	return &p, nil
}

func (s *mongoProperties) FindBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var p models.Property
	if err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, notFound(err, "Property")
	}
	return &p, nil
}

func (s *mongoProperties) Search(ctx context.Context, q ListingQuery) ([]models.Property, int64, error) {
	filter := BuildListingFilter(q)
	findOptions := options.Find().
		SetSort(BuildListingSort(q)).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	var (
		properties []models.Property
		total      int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := s.coll.Find(gctx, filter, findOptions)
		if err != nil {
			return fmt.Errorf("finding properties: %w", err)
		}
		defer cursor.Close(gctx)
		if err := cursor.All(gctx, &properties); err != nil {
			return fmt.Errorf("decoding properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.coll.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("counting properties: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if properties == nil {
		properties = []models.Property{}
	}
	return properties, total, nil
}

func (s *mongoProperties) Replace(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = s.now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return writeErr(err, duplicateSlugMsg)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Property")
	}
	return nil
}

func (s *mongoProperties) SetStatus(ctx context.Context, id primitive.ObjectID, status models.PropertyStatus) (*models.Property, error) {
	return s.set(ctx, id, bson.M{"status": status})
}

func (s *mongoProperties) MarkVerified(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return s.set(ctx, id, bson.M{"isVerified": true})
}

func (s *mongoProperties) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Property, error) {
	fields["updatedAt"] = s.now()
	var p models.Property
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, returnAfter()).Decode(&p)
	if err != nil {
		return nil, notFound(err, "Property")
	}
	return &p, nil
}

func (s *mongoProperties) Delete(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, "Property")
	}
	return &p, nil
}
