// Package store persists the listing platform's entities. The Mongo
// implementation lives next to the interfaces; storetest provides in-memory
// fakes with the same unique-key behaviour.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/models"
)

// ListingQuery is the typed form of a listing search. Zero values mean
// "no filter" except where a pointer is used.
type ListingQuery struct {
	Search       string
	City         string
	Municipality string
	WardNo       *int
	Purpose      models.Purpose
	PropertyType models.PropertyType
	PropertyFace models.PropertyFace
	Status       models.PropertyStatus
	IsVerified   *bool
	MinPrice     *float64
	MaxPrice     *float64

	SortBy   string
	SortDesc bool
	Skip     int64
	Limit    int64
}

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindBySlug(ctx context.Context, slug string) (*models.Property, error)
	// Search returns one page of matches and the total match count.
	Search(ctx context.Context, q ListingQuery) ([]models.Property, int64, error)
	Replace(ctx context.Context, p *models.Property) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.PropertyStatus) (*models.Property, error)
	MarkVerified(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	// Delete removes the listing and returns the removed document.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error
	// ConsumeVerificationToken marks the matching user verified and clears
	// the token in one write. NotFound when no unexpired token matches.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error
	// ConsumeResetToken replaces the password hash and clears the token in one write.
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
}

type FavoriteStore interface {
	// Add fails with a validation error when the pair already exists.
	Add(ctx context.Context, f *models.Favorite) error
	Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.FavoriteWithProperty, error)
}

type InquiryStore interface {
	Create(ctx context.Context, in *models.Inquiry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	View(ctx context.Context, id primitive.ObjectID) (*models.InquiryView, error)
	List(ctx context.Context, skip, limit int64) ([]models.InquiryView, error)
	Replace(ctx context.Context, in *models.Inquiry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	ListActive(ctx context.Context) ([]models.Review, error)
	Replace(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TeamStore interface {
	Create(ctx context.Context, m *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	ListActive(ctx context.Context) ([]models.Team, error)
	Replace(ctx context.Context, m *models.Team) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BlogStore interface {
	Create(ctx context.Context, b *models.Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, search string, skip, limit int64) ([]models.Blog, int64, error)
	Replace(ctx context.Context, b *models.Blog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FAQStore interface {
	Create(ctx context.Context, f *models.FAQ) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FAQ, error)
	List(ctx context.Context, onlyActive bool) ([]models.FAQ, error)
	Replace(ctx context.Context, f *models.FAQ) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type LocationFilter struct {
	Province     string
	District     string
	Municipality string
}

type LocationStore interface {
	Create(ctx context.Context, l *models.Location) error
	List(ctx context.Context, f LocationFilter) ([]models.Location, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrphanStore interface {
	Record(ctx context.Context, url, reason string, cause error) error
	List(ctx context.Context, limit int64) ([]models.OrphanAsset, error)
	MarkAttempt(ctx context.Context, id primitive.ObjectID, cause error) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Stores bundles every repository the services need.
type Stores struct {
	Properties PropertyStore
	Users      UserStore
	Favorites  FavoriteStore
	Inquiries  InquiryStore
	Reviews    ReviewStore
	Team       TeamStore
	Blogs      BlogStore
	FAQs       FAQStore
	Locations  LocationStore
	Orphans    OrphanStore
}
