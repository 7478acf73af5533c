package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/gharbari/backend/models"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, what string) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, what)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any, what, duplicateMsg string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return writeErr(err, duplicateMsg)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, what)
	}
	return nil
}

type mongoReviews struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoReviews) Create(ctx context.Context, r *models.Review) error {
	now := s.now()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, r)
	return err
}

func (s *mongoReviews) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return findOne[models.Review](ctx, s.coll, bson.M{"_id": id}, "Review")
}

func (s *mongoReviews) ListActive(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, s.coll, bson.M{"isActive": true}, options.Find().SetSort(newestFirst))
}

func (s *mongoReviews) Replace(ctx context.Context, r *models.Review) error {
	r.UpdatedAt = s.now()
	return replaceByID(ctx, s.coll, r.ID, r, "Review", "")
}

func (s *mongoReviews) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Review")
}

type mongoTeam struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoTeam) Create(ctx context.Context, m *models.Team) error {
	now := s.now()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *mongoTeam) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	return findOne[models.Team](ctx, s.coll, bson.M{"_id": id}, "Team member")
}

func (s *mongoTeam) ListActive(ctx context.Context) ([]models.Team, error) {
	return findAll[models.Team](ctx, s.coll, bson.M{"isActive": true}, options.Find().SetSort(newestFirst))
}

func (s *mongoTeam) Replace(ctx context.Context, m *models.Team) error {
	m.UpdatedAt = s.now()
	return replaceByID(ctx, s.coll, m.ID, m, "Team member", "")
}

func (s *mongoTeam) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Team member")
}

const duplicateBlogSlugMsg = "A blog with this title already exists"

type mongoBlogs struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoBlogs) Create(ctx context.Context, b *models.Blog) error {
	now := s.now()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	b.CreatedAt, b.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, b)
	return writeErr(err, duplicateBlogSlugMsg)
}

func (s *mongoBlogs) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return findOne[models.Blog](ctx, s.coll, bson.M{"_id": id}, "Blog")
}

func (s *mongoBlogs) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return findOne[models.Blog](ctx, s.coll, bson.M{"slug": slug}, "Blog")
}

func (s *mongoBlogs) List(ctx context.Context, search string, skip, limit int64) ([]models.Blog, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
	}
	blogs, err := findAll[models.Blog](ctx, s.coll, filter,
		options.Find().SetSort(newestFirst).SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting blogs: %w", err)
	}
	return blogs, total, nil
}

func (s *mongoBlogs) Replace(ctx context.Context, b *models.Blog) error {
	b.UpdatedAt = s.now()
	return replaceByID(ctx, s.coll, b.ID, b, "Blog", duplicateBlogSlugMsg)
}

func (s *mongoBlogs) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Blog")
}

type mongoFAQs struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoFAQs) Create(ctx context.Context, f *models.FAQ) error {
	now := s.now()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt, f.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, f)
	return err
}

func (s *mongoFAQs) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FAQ, error) {
	return findOne[models.FAQ](ctx, s.coll, bson.M{"_id": id}, "FAQ")
}

func (s *mongoFAQs) List(ctx context.Context, onlyActive bool) ([]models.FAQ, error) {
	filter := bson.M{}
	if onlyActive {
		filter["isActive"] = true
	}
	return findAll[models.FAQ](ctx, s.coll, filter, options.Find().SetSort(newestFirst))
}

func (s *mongoFAQs) Replace(ctx context.Context, f *models.FAQ) error {
	f.UpdatedAt = s.now()
	return replaceByID(ctx, s.coll, f.ID, f, "FAQ", "")
}

func (s *mongoFAQs) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "FAQ")
}

type mongoLocations struct {
	coll *mongo.Collection
}

func (s *mongoLocations) Create(ctx context.Context, l *models.Location) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, l)
	return err
}

func (s *mongoLocations) List(ctx context.Context, f LocationFilter) ([]models.Location, error) {
	filter := bson.M{}
	if f.Province != "" {
		filter["province"] = f.Province
	}
	if f.District != "" {
		filter["district"] = f.District
	}
	if f.Municipality != "" {
		filter["municipality"] = f.Municipality
	}
	sort := bson.D{{Key: "province", Value: 1}, {Key: "district", Value: 1}, {Key: "municipality", Value: 1}, {Key: "ward", Value: 1}}
	return findAll[models.Location](ctx, s.coll, filter, options.Find().SetSort(sort))
}

func (s *mongoLocations) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Location")
}

type mongoOrphans struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoOrphans) Record(ctx context.Context, url, reason string, cause error) error {
	o := models.OrphanAsset{
		ID:        primitive.NewObjectID(),
		URL:       url,
		Reason:    reason,
		Attempts:  1,
		CreatedAt: s.now(),
	}
	if cause != nil {
		o.LastError = cause.Error()
	}
	if _, err := s.coll.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("recording orphan asset: %w", err)
	}
	return nil
}

func (s *mongoOrphans) List(ctx context.Context, limit int64) ([]models.OrphanAsset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[models.OrphanAsset](ctx, s.coll, bson.M{}, opts)
}

func (s *mongoOrphans) MarkAttempt(ctx context.Context, id primitive.ObjectID, cause error) error {
	set := bson.M{}
	if cause != nil {
		set["lastError"] = cause.Error()
	}
	update := bson.M{"$inc": bson.M{"attempts": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *mongoOrphans) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "Orphan asset")
}
