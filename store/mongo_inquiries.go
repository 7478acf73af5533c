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

type mongoInquiries struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoInquiries) Create(ctx context.Context, in *models.Inquiry) error {
	now := s.now()
	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	if in.Status == "" {
		in.Status = models.InquiryNew
	}
	in.CreatedAt, in.UpdatedAt = now, now
	if _, err := s.coll.InsertOne(ctx, in); err != nil {
		return fmt.Errorf("inserting inquiry: %w", err)
	}
	return nil
}

func (s *mongoInquiries) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var in models.Inquiry
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&in); err != nil {
		return nil, notFound(err, "Inquiry")
	}
	return &in, nil
}

// viewPipeline joins inquiries with a summary of their listing.
func viewPipeline(match bson.M, skip, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         PropertiesCollection,
			"localField":   "property",
			"foreignField": "_id",
			"as":           "property",
			"pipeline": bson.A{
				bson.M{"$project": bson.M{"title": 1, "slug": 1, "price": 1, "city": 1, "municipality": 1}},
			},
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$property", "preserveNullAndEmptyArrays": true}}},
	)
}

func (s *mongoInquiries) View(ctx context.Context, id primitive.ObjectID) (*models.InquiryView, error) {
	views, err := s.aggregate(ctx, viewPipeline(bson.M{"_id": id}, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, notFound(mongo.ErrNoDocuments, "Inquiry")
	}
	return &views[0], nil
}

func (s *mongoInquiries) List(ctx context.Context, skip, limit int64) ([]models.InquiryView, error) {
	return s.aggregate(ctx, viewPipeline(bson.M{}, skip, limit))
}

func (s *mongoInquiries) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.InquiryView, error) {
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.InquiryView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decoding inquiries: %w", err)
	}
	return views, nil
}

func (s *mongoInquiries) Replace(ctx context.Context, in *models.Inquiry) error {
	in.UpdatedAt = s.now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": in.ID}, in)
	if err != nil {
		return fmt.Errorf("replacing inquiry: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Inquiry")
	}
	return nil
}

func (s *mongoInquiries) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Inquiry")
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, what string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", what, err)
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, what)
	}
	return nil
}
