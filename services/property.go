package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
	"github.com/dcode-github/gharbari/backend/utils"
)

// ListingCache caches listing pages. Implementations swallow their own
// errors.
type ListingCache interface {
	// Key reports false when no key can be formed; the search then skips the
	// cache entirely.
	Key(ctx context.Context, q store.ListingQuery) (string, bool)
	Get(ctx context.Context, key string) (*models.PropertyPage, bool)
	Set(ctx context.Context, key string, page *models.PropertyPage)
	Invalidate(ctx context.Context)
}

type PropertyService struct {
	props  store.PropertyStore
	assets assets
	cache  ListingCache
	now    func() time.Time
}

// NewPropertyService wires the listing service. listings may be nil.
func NewPropertyService(stores store.Stores, gateway storage.Gateway, listings ListingCache) *PropertyService {
	return &PropertyService{
		props:  stores.Properties,
		assets: assets{gateway: gateway, orphans: stores.Orphans},
		cache:  listings,
		now:    time.Now,
	}
}

// PropertyUpdateRequest is one PUT /api/properties/{id}.
type PropertyUpdateRequest struct {
	Fields models.PropertyUpdate
	// RemovedImages holds the raw removedImages form values.
	RemovedImages []string
	Files         []storage.File
}

func (s *PropertyService) Search(ctx context.Context, req ListingRequest) (*models.PropertyPage, error) {
	// The key is taken before the read so a page computed across a concurrent
	// invalidation lands under the retired generation.
	var key string
	cached := false
	if s.cache != nil {
		key, cached = s.cache.Key(ctx, req.Query)
	}
	if cached {
		if page, ok := s.cache.Get(ctx, key); ok {
			return page, nil
		}
	}

	props, total, err := s.props.Search(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if props == nil {
		props = []models.Property{}
	}

	page := &models.PropertyPage{
		Data: props,
		Pagination: models.Pagination{
			Total:      total,
			Page:       req.Page,
			Limit:      req.Limit,
			TotalPages: totalPages(total, req.Limit),
		},
	}
	if cached {
		s.cache.Set(ctx, key, page)
	}
	return page, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	oid, err := parseID(id, "property")
	if err != nil {
		return nil, err
	}
	return s.props.FindByID(ctx, oid)
}

func (s *PropertyService) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	return s.props.FindBySlug(ctx, slug)
}

// Create uploads files in order and inserts the listing. Uploads are removed
// again when the insert fails.
func (s *PropertyService) Create(ctx context.Context, fields models.PropertyUpdate, files []storage.File) (*models.Property, error) {
	p := &models.Property{Status: models.StatusAvailable}
	fields.Apply(p)
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = utils.Slugify(p.Slug)
	if err := validateProperty(p, true); err != nil {
		return nil, err
	}

	urls, err := s.assets.uploadAll(ctx, files, "property create rollback")
	if err != nil {
		return nil, err
	}
	p.Images = urls
	p.DatePosted = s.now()

	if err := s.props.Create(ctx, p); err != nil {
		s.assets.remove(ctx, urls, "property create rollback")
		return nil, err
	}

	s.invalidate(ctx)
	slog.Info("Property created", slog.String("id", p.ID.Hex()), slog.Int("images", len(urls)))
	return p, nil
}

// Update applies a partial update and reconciles the listing's images:
// uploads first, then one document write, then removal of the detached
// images. Removal failures never fail the request.
func (s *PropertyService) Update(ctx context.Context, id string, req PropertyUpdateRequest) (*models.Property, error) {
	oid, err := parseID(id, "property")
	if err != nil {
		return nil, err
	}
	current, err := s.props.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	removeSet, err := ParseRemovedImages(req.RemovedImages)
	if err != nil {
		return nil, err
	}

	updated := *current
	req.Fields.Apply(&updated)
	if req.Fields.Slug != nil {
		updated.Slug = utils.Slugify(updated.Slug)
	}
	if err := validateProperty(&updated, false); err != nil {
		return nil, err
	}

	kept, detached := splitImages(current.Images, removeSet)
	for _, url := range removeSet {
		if !contains(detached, url) {
			slog.Warn("Ignoring removal of image not attached to property",
				slog.String("id", id),
				slog.String("url", url))
		}
	}

	uploaded, err := s.assets.uploadAll(ctx, req.Files, "property update rollback")
	if err != nil {
		return nil, err
	}
	updated.Images = append(kept, uploaded...)

	if err := s.props.Replace(ctx, &updated); err != nil {
		s.assets.remove(ctx, uploaded, "property update rollback")
		return nil, err
	}

	s.assets.remove(ctx, detached, "property update")
	s.invalidate(ctx)
	slog.Info("Property updated",
		slog.String("id", id),
		slog.Int("removed", len(detached)),
		slog.Int("uploaded", len(uploaded)))
	return &updated, nil
}

// Delete removes the listing, then its images on a best effort basis.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "property")
	if err != nil {
		return err
	}
	p, err := s.props.Delete(ctx, oid)
	if err != nil {
		return err
	}
	s.assets.remove(ctx, p.Images, "property delete")
	s.invalidate(ctx)
	slog.Info("Property deleted", slog.String("id", id))
	return nil
}

func (s *PropertyService) UpdateStatus(ctx context.Context, id string, status models.PropertyStatus) (*models.Property, error) {
	oid, err := parseID(id, "property")
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errs.Validationf("Invalid status %q", status)
	}
	p, err := s.props.SetStatus(ctx, oid, status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *PropertyService) Verify(ctx context.Context, id string) (*models.Property, error) {
	oid, err := parseID(id, "property")
	if err != nil {
		return nil, err
	}
	p, err := s.props.MarkVerified(ctx, oid)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *PropertyService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx))
	}
}

// splitImages partitions current into the images that stay, in their
// original order, and the ones named in remove.
func splitImages(current, remove []string) (kept, detached []string) {
	drop := make(map[string]bool, len(remove))
	for _, u := range remove {
		drop[u] = true
	}
	kept = make([]string, 0, len(current))
	for _, u := range current {
		if drop[u] {
			if !contains(detached, u) {
				detached = append(detached, u)
			}
			continue
		}
		kept = append(kept, u)
	}
	return kept, detached
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func validateProperty(p *models.Property, creating bool) error {
	switch {
	case p.Title == "":
		return errs.Validation("Title is required")
	case p.Description == "":
		return errs.Validation("Description is required")
	case !p.Purpose.Valid():
		return errs.Validationf("Invalid purpose %q", p.Purpose)
	case !p.PropertyType.Valid():
		return errs.Validationf("Invalid propertyType %q", p.PropertyType)
	case p.Price <= 0:
		return errs.Validation("Price must be a positive number")
	case p.Area.Value <= 0:
		return errs.Validation("Area value must be a positive number")
	case !p.Area.Unit.Valid():
		return errs.Validationf("Invalid area unit %q", p.Area.Unit)
	case p.City == "":
		return errs.Validation("City is required")
	case p.AreaName == "":
		return errs.Validation("Area name is required")
	case p.Municipality == "":
		return errs.Validation("Municipality is required")
	case p.WardNo < 1:
		return errs.Validation("Ward number must be a positive integer")
	case p.RoadType != "" && !p.RoadType.Valid():
		return errs.Validationf("Invalid roadType %q", p.RoadType)
	case p.PropertyFace != "" && !p.PropertyFace.Valid():
		return errs.Validationf("Invalid propertyFace %q", p.PropertyFace)
	case !p.Status.Valid():
		return errs.Validationf("Invalid status %q", p.Status)
	case p.RoadAccess != nil && *p.RoadAccess < 0:
		return errs.Validation("Road access cannot be negative")
	case p.RingRoadDistance != nil && *p.RingRoadDistance < 0:
		return errs.Validation("Ring road distance cannot be negative")
	case p.Slug == "":
		if creating {
			return errs.Validation("Title must contain letters or digits")
		}
		return errs.Validation("Slug cannot be empty")
	}
	return nil
}
