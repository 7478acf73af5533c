package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/gharbari/backend/models"
)

const duplicateEmailMsg = "Email already registered"

type mongoUsers struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *mongoUsers) Create(ctx context.Context, u *models.User) error {
	now := s.now()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := s.coll.InsertOne(ctx, u)
	return writeErr(err, duplicateEmailMsg)
}

func (s *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err, "User")
	}
	return &u, nil
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return &u, nil
}

func (s *mongoUsers) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"emailVerificationToken":   token,
		"emailVerificationExpires": expires,
		"updatedAt":                s.now(),
	}})
}

func (s *mongoUsers) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	filter := bson.M{
		"emailVerificationToken":   token,
		"emailVerificationExpires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": s.now()},
		"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""},
	}
	var u models.User
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&u); err != nil {
		return nil, notFound(err, "Verification token")
	}
	return &u, nil
}

func (s *mongoUsers) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": expires,
		"updatedAt":            s.now(),
	}})
}

func (s *mongoUsers) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error {
	filter := bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": s.now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Reset token")
	}
	return nil
}

func (s *mongoUsers) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": s.now()}})
}

func (s *mongoUsers) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"role": role, "updatedAt": s.now()}})
}

func (s *mongoUsers) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "User")
	}
	return nil
}
