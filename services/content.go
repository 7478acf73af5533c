package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
	"github.com/dcode-github/gharbari/backend/utils"
)

// replaceImage uploads file (when given) and returns the new URL, or keep
// when there is no file.
func (a assets) replaceImage(ctx context.Context, file *storage.File, keep string, reason string) (string, bool, error) {
	if file == nil {
		return keep, false, nil
	}
	urls, err := a.uploadAll(ctx, []storage.File{*file}, reason)
	if err != nil {
		return "", false, err
	}
	return urls[0], true, nil
}

// ReviewInput is the typed review payload. Nil fields are left untouched.
type ReviewInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Message  *string `json:"message"`
	Rating   *int    `json:"rating"`
	Image    *string `json:"image"`
	IsActive *bool   `json:"isActive"`
	Property *string `json:"property"`
	User     *string `json:"user"`
}

type ReviewService struct {
	reviews store.ReviewStore
	assets  assets
}

func NewReviewService(stores store.Stores, gateway storage.Gateway) *ReviewService {
	return &ReviewService{reviews: stores.Reviews, assets: assets{gateway: gateway, orphans: stores.Orphans}}
}

func optionalID(s *string, what string) (*primitive.ObjectID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	oid, err := parseID(*s, what)
	if err != nil {
		return nil, err
	}
	return &oid, nil
}

func (in ReviewInput) apply(r *models.Review) error {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		r.Role = strings.TrimSpace(*in.Role)
	}
	if in.Message != nil {
		r.Message = strings.TrimSpace(*in.Message)
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Image != nil {
		r.Image = *in.Image
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	var err error
	if in.Property != nil {
		if r.PropertyID, err = optionalID(in.Property, "property"); err != nil {
			return err
		}
	}
	if in.User != nil {
		if r.UserID, err = optionalID(in.User, "user"); err != nil {
			return err
		}
	}
	switch {
	case r.Name == "":
		return errs.Validation("Name is required")
	case r.Message == "":
		return errs.Validation("Message is required")
	case r.Rating < 1 || r.Rating > 5:
		return errs.Validation("Rating must be between 1 and 5")
	}
	return nil
}

func (s *ReviewService) ListActive(ctx context.Context) ([]models.Review, error) {
	out, err := s.reviews.ListActive(ctx)
	if out == nil && err == nil {
		out = []models.Review{}
	}
	return out, err
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	oid, err := parseID(id, "review")
	if err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, oid)
}

func (s *ReviewService) Create(ctx context.Context, in ReviewInput, image *storage.File) (*models.Review, error) {
	r := &models.Review{IsActive: true}
	if err := in.apply(r); err != nil {
		return nil, err
	}
	url, uploaded, err := s.assets.replaceImage(ctx, image, r.Image, "review create rollback")
	if err != nil {
		return nil, err
	}
	r.Image = url
	if err := s.reviews.Create(ctx, r); err != nil {
		if uploaded {
			s.assets.remove(ctx, []string{url}, "review create rollback")
		}
		return nil, err
	}
	return r, nil
}

// Update replaces the image when a new file is given; the old one is removed
// after the write succeeds.
func (s *ReviewService) Update(ctx context.Context, id string, in ReviewInput, image *storage.File) (*models.Review, error) {
	oid, err := parseID(id, "review")
	if err != nil {
		return nil, err
	}
	r, err := s.reviews.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	old := r.Image
	if err := in.apply(r); err != nil {
		return nil, err
	}
	url, uploaded, err := s.assets.replaceImage(ctx, image, r.Image, "review update rollback")
	if err != nil {
		return nil, err
	}
	r.Image = url
	if err := s.reviews.Replace(ctx, r); err != nil {
		if uploaded {
			s.assets.remove(ctx, []string{url}, "review update rollback")
		}
		return nil, err
	}
	if old != "" && old != r.Image {
		s.assets.remove(ctx, []string{old}, "review update")
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "review")
	if err != nil {
		return err
	}
	r, err := s.reviews.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, oid); err != nil {
		return err
	}
	if r.Image != "" {
		s.assets.remove(ctx, []string{r.Image}, "review delete")
	}
	return nil
}

type TeamInput struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Image    *string `json:"image"`
	IsActive *bool   `json:"isActive"`
}

func (in TeamInput) apply(m *models.Team) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Image != nil {
		m.Image = *in.Image
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
}

func validateTeam(m *models.Team, hasFile bool) error {
	switch {
	case m.Name == "":
		return errs.Validation("Name is required")
	case m.Title == "":
		return errs.Validation("Title is required")
	case m.Image == "" && !hasFile:
		return errs.Validation("Image is required")
	}
	return nil
}

type TeamService struct {
	team   store.TeamStore
	assets assets
}

func NewTeamService(stores store.Stores, gateway storage.Gateway) *TeamService {
	return &TeamService{team: stores.Team, assets: assets{gateway: gateway, orphans: stores.Orphans}}
}

func (s *TeamService) ListActive(ctx context.Context) ([]models.Team, error) {
	out, err := s.team.ListActive(ctx)
	if out == nil && err == nil {
		out = []models.Team{}
	}
	return out, err
}

func (s *TeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	oid, err := parseID(id, "team member")
	if err != nil {
		return nil, err
	}
	return s.team.FindByID(ctx, oid)
}

func (s *TeamService) Create(ctx context.Context, in TeamInput, image *storage.File) (*models.Team, error) {
	m := &models.Team{IsActive: true}
	in.apply(m)
	if err := validateTeam(m, image != nil); err != nil {
		return nil, err
	}
	url, uploaded, err := s.assets.replaceImage(ctx, image, m.Image, "team create rollback")
	if err != nil {
		return nil, err
	}
	m.Image = url
	if err := s.team.Create(ctx, m); err != nil {
		if uploaded {
			s.assets.remove(ctx, []string{url}, "team create rollback")
		}
		return nil, err
	}
	return m, nil
}

func (s *TeamService) Update(ctx context.Context, id string, in TeamInput, image *storage.File) (*models.Team, error) {
	oid, err := parseID(id, "team member")
	if err != nil {
		return nil, err
	}
	m, err := s.team.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	old := m.Image
	in.apply(m)
	if err := validateTeam(m, image != nil); err != nil {
		return nil, err
	}
	url, uploaded, err := s.assets.replaceImage(ctx, image, m.Image, "team update rollback")
	if err != nil {
		return nil, err
	}
	m.Image = url
	if err := s.team.Replace(ctx, m); err != nil {
		if uploaded {
			s.assets.remove(ctx, []string{url}, "team update rollback")
		}
		return nil, err
	}
	if old != "" && old != m.Image {
		s.assets.remove(ctx, []string{old}, "team update")
	}
	return m, nil
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "team member")
	if err != nil {
		return err
	}
	m, err := s.team.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := s.team.Delete(ctx, oid); err != nil {
		return err
	}
	if m.Image != "" {
		s.assets.remove(ctx, []string{m.Image}, "team delete")
	}
	return nil
}

type BlogInput struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Author      *string `json:"author"`
	Image       *string `json:"image"`
	IsPublished *bool   `json:"isPublished"`
}

type BlogService struct {
	blogs store.BlogStore
}

func NewBlogService(stores store.Stores) *BlogService {
	return &BlogService{blogs: stores.Blogs}
}

// apply merges in onto b and derives the slug from a new title.
func (in BlogInput) apply(b *models.Blog) error {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
		b.Slug = utils.Slugify(b.Title)
	}
	if in.Content != nil {
		b.Content = *in.Content
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
	if in.IsPublished != nil {
		b.IsPublished = *in.IsPublished
	}
	switch {
	case b.Title == "":
		return errs.Validation("Title is required")
	case b.Slug == "":
		return errs.Validation("Title must contain letters or digits")
	case b.Content == "":
		return errs.Validation("Content is required")
	case b.Author == "":
		return errs.Validation("Author is required")
	}
	return nil
}

// List returns one page of blogs, newest first, optionally filtered by a
// case-insensitive title substring.
func (s *BlogService) List(ctx context.Context, search string, page, limit int) ([]models.Blog, models.Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	skip, err := pageSkip(page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	blogs, total, err := s.blogs.List(ctx, strings.TrimSpace(search), skip, int64(limit))
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return blogs, models.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit)}, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := parseID(id, "blog")
	if err != nil {
		return nil, err
	}
	return s.blogs.FindByID(ctx, oid)
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return s.blogs.FindBySlug(ctx, slug)
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.Blog, error) {
	b := &models.Blog{IsPublished: true}
	if err := in.apply(b); err != nil {
		return nil, err
	}
	if err := s.blogs.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*models.Blog, error) {
	oid, err := parseID(id, "blog")
	if err != nil {
		return nil, err
	}
	b, err := s.blogs.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := in.apply(b); err != nil {
		return nil, err
	}
	if err := s.blogs.Replace(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "blog")
	if err != nil {
		return err
	}
	return s.blogs.Delete(ctx, oid)
}

type FAQInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	IsActive *bool   `json:"isActive"`
}

func (in FAQInput) apply(f *models.FAQ) error {
	if in.Question != nil {
		f.Question = strings.TrimSpace(*in.Question)
	}
	if in.Answer != nil {
		f.Answer = strings.TrimSpace(*in.Answer)
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	switch {
	case f.Question == "":
		return errs.Validation("Question is required")
	case f.Answer == "":
		return errs.Validation("Answer is required")
	}
	return nil
}

type FAQService struct {
	faqs store.FAQStore
}

func NewFAQService(stores store.Stores) *FAQService {
	return &FAQService{faqs: stores.FAQs}
}

func (s *FAQService) List(ctx context.Context, onlyActive bool) ([]models.FAQ, error) {
	out, err := s.faqs.List(ctx, onlyActive)
	if out == nil && err == nil {
		out = []models.FAQ{}
	}
	return out, err
}

func (s *FAQService) Get(ctx context.Context, id string) (*models.FAQ, error) {
	oid, err := parseID(id, "FAQ")
	if err != nil {
		return nil, err
	}
	return s.faqs.FindByID(ctx, oid)
}

func (s *FAQService) Create(ctx context.Context, in FAQInput) (*models.FAQ, error) {
	f := &models.FAQ{IsActive: true}
	if err := in.apply(f); err != nil {
		return nil, err
	}
	if err := s.faqs.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FAQService) Update(ctx context.Context, id string, in FAQInput) (*models.FAQ, error) {
	oid, err := parseID(id, "FAQ")
	if err != nil {
		return nil, err
	}
	f, err := s.faqs.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := in.apply(f); err != nil {
		return nil, err
	}
	if err := s.faqs.Replace(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FAQService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "FAQ")
	if err != nil {
		return err
	}
	return s.faqs.Delete(ctx, oid)
}
