package storetest

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

type memUsers struct{ m *Memory }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return errs.Validation("Email already registered")
		}
	}
	now := s.m.Now()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.CreatedAt, u.UpdatedAt = now, now
	s.m.users[u.ID] = *u
	return nil
}

func (s memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	return &u, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.NotFound("User not found")
}

func (s memUsers) modify(id primitive.ObjectID, fn func(*models.User)) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return errs.NotFound("User not found")
	}
	fn(&u)
	u.UpdatedAt = s.m.Now()
	s.m.users[id] = u
	return nil
}

func (s memUsers) SetVerificationToken(_ context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	return s.modify(id, func(u *models.User) {
		u.EmailVerificationToken = token
		u.EmailVerificationExpires = &expires
	})
}

func (s memUsers) ConsumeVerificationToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, u := range s.m.users {
		if token != "" && u.EmailVerificationToken == token &&
			u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(now) {
			u.IsVerified = true
			u.EmailVerificationToken = ""
			u.EmailVerificationExpires = nil
			s.m.users[id] = u
			return &u, nil
		}
	}
	return nil, errs.NotFound("Verification token not found")
}

func (s memUsers) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	return s.modify(id, func(u *models.User) {
		u.ResetPasswordToken = token
		u.ResetPasswordExpires = &expires
	})
}

func (s memUsers) ConsumeResetToken(_ context.Context, token string, now time.Time, passwordHash string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, u := range s.m.users {
		if token != "" && u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			u.Password = passwordHash
			u.ResetPasswordToken = ""
			u.ResetPasswordExpires = nil
			s.m.users[id] = u
			return nil
		}
	}
	return errs.NotFound("Reset token not found")
}

func (s memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	return s.modify(id, func(u *models.User) { u.Password = passwordHash })
}

func (s memUsers) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	return s.modify(id, func(u *models.User) { u.Role = role })
}

type memFavorites struct{ m *Memory }

func (s memFavorites) Add(_ context.Context, f *models.Favorite) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.favorites {
		if existing.UserID == f.UserID && existing.PropertyID == f.PropertyID {
			return errs.Validation("Already in favorites")
		}
	}
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = s.m.Now()
	s.m.favorites[f.ID] = *f
	return nil
}

func (s memFavorites) Remove(_ context.Context, userID, propertyID primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for id, f := range s.m.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			delete(s.m.favorites, id)
		}
	}
	return nil
}

func (s memFavorites) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.FavoriteWithProperty, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.FavoriteWithProperty{}
	favs := sortedByID(s.m.favorites, func(f models.Favorite) primitive.ObjectID { return f.ID })
	for i := len(favs) - 1; i >= 0; i-- {
		f := favs[i]
		if f.UserID != userID {
			continue
		}
		view := models.FavoriteWithProperty{ID: f.ID, UserID: f.UserID, CreatedAt: f.CreatedAt}
		if p, ok := s.m.properties[f.PropertyID]; ok {
			p = cloneProperty(p)
			view.Property = &p
		}
		out = append(out, view)
	}
	return out, nil
}

type memInquiries struct{ m *Memory }

func (s memInquiries) Create(_ context.Context, in *models.Inquiry) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	now := s.m.Now()
	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	if in.Status == "" {
		in.Status = models.InquiryNew
	}
	in.CreatedAt, in.UpdatedAt = now, now
	s.m.inquiries[in.ID] = *in
	return nil
}

func (s memInquiries) FindByID(_ context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	in, ok := s.m.inquiries[id]
	if !ok {
		return nil, errs.NotFound("Inquiry not found")
	}
	return &in, nil
}

func (s memInquiries) view(in models.Inquiry) models.InquiryView {
	v := models.InquiryView{
		ID: in.ID, Name: in.Name, Email: in.Email, Phone: in.Phone,
		Message: in.Message, Status: in.Status, CreatedAt: in.CreatedAt, UpdatedAt: in.UpdatedAt,
	}
	if p, ok := s.m.properties[in.PropertyID]; ok {
		v.Property = &models.PropertySummary{
			ID: p.ID, Title: p.Title, Slug: p.Slug, Price: p.Price, City: p.City, Municipality: p.Municipality,
		}
	}
	return v
}

func (s memInquiries) View(_ context.Context, id primitive.ObjectID) (*models.InquiryView, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	in, ok := s.m.inquiries[id]
	if !ok {
		return nil, errs.NotFound("Inquiry not found")
	}
	v := s.view(in)
	return &v, nil
}

func (s memInquiries) List(_ context.Context, skip, limit int64) ([]models.InquiryView, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	all := sortedByID(s.m.inquiries, func(in models.Inquiry) primitive.ObjectID { return in.ID })
	views := make([]models.InquiryView, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		views = append(views, s.view(all[i]))
	}
	return paginate(views, skip, limit), nil
}

func (s memInquiries) Replace(_ context.Context, in *models.Inquiry) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.inquiries[in.ID]; !ok {
		return errs.NotFound("Inquiry not found")
	}
	in.UpdatedAt = s.m.Now()
	s.m.inquiries[in.ID] = *in
	return nil
}

func (s memInquiries) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.inquiries, id, "Inquiry")
}

func deleteFrom[T any](m *Memory, docs map[primitive.ObjectID]T, id primitive.ObjectID, what string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := docs[id]; !ok {
		return errs.NotFound(what + " not found")
	}
	delete(docs, id)
	return nil
}

func findIn[T any](m *Memory, docs map[primitive.ObjectID]T, id primitive.ObjectID, what string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := docs[id]
	if !ok {
		return nil, errs.NotFound(what + " not found")
	}
	return &d, nil
}

func replaceIn[T any](m *Memory, docs map[primitive.ObjectID]T, id primitive.ObjectID, doc T, what string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := docs[id]; !ok {
		return errs.NotFound(what + " not found")
	}
	docs[id] = doc
	return nil
}

// newestFirst returns docs matching keep ordered by descending id.
func newestFirst[T any](m *Memory, docs map[primitive.ObjectID]T, id func(T) primitive.ObjectID, keep func(T) bool) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := sortedByID(docs, id)
	out := []T{}
	for i := len(all) - 1; i >= 0; i-- {
		if keep(all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

type memReviews struct{ m *Memory }

func (s memReviews) Create(_ context.Context, r *models.Review) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt, r.UpdatedAt = s.m.Now(), s.m.Now()
	s.m.reviews[r.ID] = *r
	return nil
}

func (s memReviews) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	return findIn(s.m, s.m.reviews, id, "Review")
}

func (s memReviews) ListActive(_ context.Context) ([]models.Review, error) {
	return newestFirst(s.m, s.m.reviews, func(r models.Review) primitive.ObjectID { return r.ID },
		func(r models.Review) bool { return r.IsActive }), nil
}

func (s memReviews) Replace(_ context.Context, r *models.Review) error {
	r.UpdatedAt = s.m.Now()
	return replaceIn(s.m, s.m.reviews, r.ID, *r, "Review")
}

func (s memReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.reviews, id, "Review")
}

type memTeam struct{ m *Memory }

func (s memTeam) Create(_ context.Context, t *models.Team) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt, t.UpdatedAt = s.m.Now(), s.m.Now()
	s.m.team[t.ID] = *t
	return nil
}

func (s memTeam) FindByID(_ context.Context, id primitive.ObjectID) (*models.Team, error) {
	return findIn(s.m, s.m.team, id, "Team member")
}

func (s memTeam) ListActive(_ context.Context) ([]models.Team, error) {
	return newestFirst(s.m, s.m.team, func(t models.Team) primitive.ObjectID { return t.ID },
		func(t models.Team) bool { return t.IsActive }), nil
}

func (s memTeam) Replace(_ context.Context, t *models.Team) error {
	t.UpdatedAt = s.m.Now()
	return replaceIn(s.m, s.m.team, t.ID, *t, "Team member")
}

func (s memTeam) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.team, id, "Team member")
}

type memBlogs struct{ m *Memory }

func (s memBlogs) slugTaken(id primitive.ObjectID, slug string) bool {
	for other, b := range s.m.blogs {
		if other != id && b.Slug == slug {
			return true
		}
	}
	return false
}

func (s memBlogs) Create(_ context.Context, b *models.Blog) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if s.slugTaken(b.ID, b.Slug) {
		return errs.Validation("A blog with this title already exists")
	}
	b.CreatedAt, b.UpdatedAt = s.m.Now(), s.m.Now()
	s.m.blogs[b.ID] = *b
	return nil
}

func (s memBlogs) FindByID(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return findIn(s.m, s.m.blogs, id, "Blog")
}

func (s memBlogs) FindBySlug(_ context.Context, slug string) (*models.Blog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, b := range s.m.blogs {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, errs.NotFound("Blog not found")
}

func (s memBlogs) List(_ context.Context, search string, skip, limit int64) ([]models.Blog, int64, error) {
	all := newestFirst(s.m, s.m.blogs, func(b models.Blog) primitive.ObjectID { return b.ID },
		func(b models.Blog) bool { return search == "" || containsFold(b.Title, search) })
	return paginate(all, skip, limit), int64(len(all)), nil
}

func (s memBlogs) Replace(_ context.Context, b *models.Blog) error {
	s.m.mu.Lock()
	taken := s.slugTaken(b.ID, b.Slug)
	s.m.mu.Unlock()
	if taken {
		return errs.Validation("A blog with this title already exists")
	}
	b.UpdatedAt = s.m.Now()
	return replaceIn(s.m, s.m.blogs, b.ID, *b, "Blog")
}

func (s memBlogs) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.blogs, id, "Blog")
}

type memFAQs struct{ m *Memory }

func (s memFAQs) Create(_ context.Context, f *models.FAQ) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt, f.UpdatedAt = s.m.Now(), s.m.Now()
	s.m.faqs[f.ID] = *f
	return nil
}

func (s memFAQs) FindByID(_ context.Context, id primitive.ObjectID) (*models.FAQ, error) {
	return findIn(s.m, s.m.faqs, id, "FAQ")
}

func (s memFAQs) List(_ context.Context, onlyActive bool) ([]models.FAQ, error) {
	return newestFirst(s.m, s.m.faqs, func(f models.FAQ) primitive.ObjectID { return f.ID },
		func(f models.FAQ) bool { return !onlyActive || f.IsActive }), nil
}

func (s memFAQs) Replace(_ context.Context, f *models.FAQ) error {
	f.UpdatedAt = s.m.Now()
	return replaceIn(s.m, s.m.faqs, f.ID, *f, "FAQ")
}

func (s memFAQs) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.faqs, id, "FAQ")
}

type memLocations struct{ m *Memory }

func (s memLocations) Create(_ context.Context, l *models.Location) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	s.m.locations[l.ID] = *l
	return nil
}

func (s memLocations) List(_ context.Context, f store.LocationFilter) ([]models.Location, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Location{}
	for _, l := range sortedByID(s.m.locations, func(l models.Location) primitive.ObjectID { return l.ID }) {
		if (f.Province == "" || l.Province == f.Province) &&
			(f.District == "" || l.District == f.District) &&
			(f.Municipality == "" || l.Municipality == f.Municipality) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s memLocations) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.locations, id, "Location")
}

type memOrphans struct{ m *Memory }

func (s memOrphans) Record(_ context.Context, url, reason string, cause error) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o := models.OrphanAsset{ID: primitive.NewObjectID(), URL: url, Reason: reason, Attempts: 1, CreatedAt: s.m.Now()}
	if cause != nil {
		o.LastError = cause.Error()
	}
	s.m.orphans[o.ID] = o
	return nil
}

func (s memOrphans) List(_ context.Context, limit int64) ([]models.OrphanAsset, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	all := sortedByID(s.m.orphans, func(o models.OrphanAsset) primitive.ObjectID { return o.ID })
	return paginate(all, 0, limit), nil
}

func (s memOrphans) MarkAttempt(_ context.Context, id primitive.ObjectID, cause error) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orphans[id]
	if !ok {
		return errs.NotFound("Orphan asset not found")
	}
	o.Attempts++
	if cause != nil {
		o.LastError = cause.Error()
	}
	s.m.orphans[id] = o
	return nil
}

func (s memOrphans) Delete(_ context.Context, id primitive.ObjectID) error {
	return deleteFrom(s.m, s.m.orphans, id, "Orphan asset")
}
