// Package storetest provides in-memory stores with the same unique-key and
// not-found behaviour as the Mongo implementation, plus a fake gateway.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

// New returns a fresh set of in-memory stores.
func New() *Memory {
	m := &Memory{
		Now:        time.Now,
		properties: map[primitive.ObjectID]models.Property{},
		users:      map[primitive.ObjectID]models.User{},
		favorites:  map[primitive.ObjectID]models.Favorite{},
		inquiries:  map[primitive.ObjectID]models.Inquiry{},
		reviews:    map[primitive.ObjectID]models.Review{},
		team:       map[primitive.ObjectID]models.Team{},
		blogs:      map[primitive.ObjectID]models.Blog{},
		faqs:       map[primitive.ObjectID]models.FAQ{},
		locations:  map[primitive.ObjectID]models.Location{},
		orphans:    map[primitive.ObjectID]models.OrphanAsset{},
	}
	return m
}

// Memory holds every collection behind one mutex.
type Memory struct {
	mu  sync.Mutex
	Now func() time.Time

	// ReplacePropertyErr, when set, is returned by Properties().Replace.
	ReplacePropertyErr error
	// CreatePropertyErr, when set, is returned by Properties().Create.
	CreatePropertyErr error

	properties map[primitive.ObjectID]models.Property
	users      map[primitive.ObjectID]models.User
	favorites  map[primitive.ObjectID]models.Favorite
	inquiries  map[primitive.ObjectID]models.Inquiry
	reviews    map[primitive.ObjectID]models.Review
	team       map[primitive.ObjectID]models.Team
	blogs      map[primitive.ObjectID]models.Blog
	faqs       map[primitive.ObjectID]models.FAQ
	locations  map[primitive.ObjectID]models.Location
	orphans    map[primitive.ObjectID]models.OrphanAsset
}

func (m *Memory) Stores() store.Stores {
	return store.Stores{
		Properties: memProperties{m},
		Users:      memUsers{m},
		Favorites:  memFavorites{m},
		Inquiries:  memInquiries{m},
		Reviews:    memReviews{m},
		Team:       memTeam{m},
		Blogs:      memBlogs{m},
		FAQs:       memFAQs{m},
		Locations:  memLocations{m},
		Orphans:    memOrphans{m},
	}
}

// OrphanURLs returns a snapshot of recorded orphan assets.
func (m *Memory) OrphanURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var urls []string
	for _, o := range sortedByID(m.orphans, func(o models.OrphanAsset) primitive.ObjectID { return o.ID }) {
		urls = append(urls, o.URL)
	}
	return urls
}

func sortedByID[T any](docs map[primitive.ObjectID]T, id func(T) primitive.ObjectID) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]).Hex() < id(out[j]).Hex() })
	return out
}

func paginate[T any](docs []T, skip, limit int64) []T {
	if skip >= int64(len(docs)) {
		return []T{}
	}
	docs = docs[skip:]
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type memProperties struct{ m *Memory }

func (s memProperties) Create(_ context.Context, p *models.Property) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.CreatePropertyErr != nil {
		return s.m.CreatePropertyErr
	}
	for _, existing := range s.m.properties {
		if existing.Slug == p.Slug {
			return errs.Validation("A property with this slug already exists")
		}
	}
	now := s.m.Now()
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
	s.m.properties[p.ID] = cloneProperty(*p)
	return nil
}

func cloneProperty(p models.Property) models.Property {
	p.Images = append([]string{}, p.Images...)
	return p
}

func (s memProperties) FindByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return nil, errs.NotFound("Property not found")
	}
	p = cloneProperty(p)
	return &p, nil
}

func (s memProperties) FindBySlug(_ context.Context, slug string) (*models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.properties {
		if p.Slug == slug {
			p = cloneProperty(p)
			return &p, nil
		}
	}
	return nil, errs.NotFound("Property not found")
}

func matchesListing(p models.Property, q store.ListingQuery) bool {
	switch {
	case q.City != "" && p.City != q.City,
		q.Municipality != "" && p.Municipality != q.Municipality,
		q.WardNo != nil && p.WardNo != *q.WardNo,
		q.Purpose != "" && p.Purpose != q.Purpose,
		q.PropertyType != "" && p.PropertyType != q.PropertyType,
		q.PropertyFace != "" && p.PropertyFace != q.PropertyFace,
		q.Status != "" && p.Status != q.Status,
		q.IsVerified != nil && p.IsVerified != *q.IsVerified,
		q.MinPrice != nil && p.Price < *q.MinPrice,
		q.MaxPrice != nil && p.Price > *q.MaxPrice:
		return false
	}
	if q.Search != "" {
		return containsFold(p.Title, q.Search) ||
			containsFold(p.Description, q.Search) ||
			containsFold(p.AreaName, q.Search)
	}
	return true
}

func compareListing(a, b models.Property, field string) int {
	cmpFloat := func(x, y float64) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch field {
	case "price":
		return cmpFloat(a.Price, b.Price)
	case "wardNo":
		return cmpFloat(float64(a.WardNo), float64(b.WardNo))
	case "area.value":
		return cmpFloat(a.Area.Value, b.Area.Value)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.DatePosted.Compare(b.DatePosted)
	}
}

func (s memProperties) Search(_ context.Context, q store.ListingQuery) ([]models.Property, int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var matched []models.Property
	for _, p := range s.m.properties {
		if matchesListing(p, q) {
			matched = append(matched, cloneProperty(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		c := compareListing(matched[i], matched[j], q.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID.Hex(), matched[j].ID.Hex())
		}
		if q.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return paginate(matched, q.Skip, q.Limit), int64(len(matched)), nil
}

func (s memProperties) Replace(_ context.Context, p *models.Property) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.ReplacePropertyErr != nil {
		return s.m.ReplacePropertyErr
	}
	if _, ok := s.m.properties[p.ID]; !ok {
		return errs.NotFound("Property not found")
	}
	for id, existing := range s.m.properties {
		if id != p.ID && existing.Slug == p.Slug {
			return errs.Validation("A property with this slug already exists")
		}
	}
	p.UpdatedAt = s.m.Now()
	s.m.properties[p.ID] = cloneProperty(*p)
	return nil
}

func (s memProperties) update(id primitive.ObjectID, fn func(*models.Property)) (*models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return nil, errs.NotFound("Property not found")
	}
	fn(&p)
	p.UpdatedAt = s.m.Now()
	s.m.properties[id] = p
	p = cloneProperty(p)
	return &p, nil
}

func (s memProperties) SetStatus(_ context.Context, id primitive.ObjectID, status models.PropertyStatus) (*models.Property, error) {
	return s.update(id, func(p *models.Property) { p.Status = status })
}

func (s memProperties) MarkVerified(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	return s.update(id, func(p *models.Property) { p.IsVerified = true })
}

func (s memProperties) Delete(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.properties[id]
	if !ok {
		return nil, errs.NotFound("Property not found")
	}
	delete(s.m.properties, id)
	return &p, nil
}
