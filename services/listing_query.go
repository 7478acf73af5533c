package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	defaultSort  = "datePosted"
)

var sortableFields = map[string]bool{
	"datePosted": true,
	"price":      true,
	"createdAt":  true,
	"updatedAt":  true,
	"title":      true,
	"wardNo":     true,
	"area.value": true,
}

// ListingRequest is a parsed listing search.
type ListingRequest struct {
	Query store.ListingQuery
	Page  int
	Limit int
}

// ParseListingQuery turns the raw query string of GET /api/properties into a
// typed query. Empty values count as absent, except isVerified which is
// applied whenever the key is present.
func ParseListingQuery(v url.Values) (ListingRequest, error) {
	page, err := positiveInt(v, "page", defaultPage)
	if err != nil {
		return ListingRequest{}, err
	}
	limit, err := positiveInt(v, "limit", defaultLimit)
	if err != nil {
		return ListingRequest{}, err
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	skip, err := pageSkip(page, limit)
	if err != nil {
		return ListingRequest{}, err
	}

	q := store.ListingQuery{
		Search:       strings.TrimSpace(v.Get("search")),
		City:         strings.TrimSpace(v.Get("city")),
		Municipality: strings.TrimSpace(v.Get("municipality")),
		SortBy:       defaultSort,
		SortDesc:     true,
		Skip:         skip,
		Limit:        int64(limit),
	}

	if s := v.Get("sortBy"); s != "" {
		if !sortableFields[s] {
			return ListingRequest{}, errs.Validationf("Cannot sort by %q", s)
		}
		q.SortBy = s
	}
	switch v.Get("sortOrder") {
	case "", "desc":
	case "asc":
		q.SortDesc = false
	default:
		return ListingRequest{}, errs.Validation("sortOrder must be asc or desc")
	}

	if s := v.Get("wardNo"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ListingRequest{}, errs.Validation("wardNo must be an integer")
		}
		q.WardNo = &n
	}

	if s := v.Get("purpose"); s != "" {
		q.Purpose = models.Purpose(s)
		if !q.Purpose.Valid() {
			return ListingRequest{}, errs.Validationf("Invalid purpose %q", s)
		}
	}
	if s := v.Get("propertyType"); s != "" {
		q.PropertyType = models.PropertyType(s)
		if !q.PropertyType.Valid() {
			return ListingRequest{}, errs.Validationf("Invalid propertyType %q", s)
		}
	}
	if s := v.Get("propertyFace"); s != "" {
		q.PropertyFace = models.PropertyFace(s)
		if !q.PropertyFace.Valid() {
			return ListingRequest{}, errs.Validationf("Invalid propertyFace %q", s)
		}
	}
	if s := v.Get("status"); s != "" {
		q.Status = models.PropertyStatus(s)
		if !q.Status.Valid() {
			return ListingRequest{}, errs.Validationf("Invalid status %q", s)
		}
	}

	if _, ok := v["isVerified"]; ok {
		verified := v.Get("isVerified") == "true"
		q.IsVerified = &verified
	}

	if q.MinPrice, err = price(v, "minPrice"); err != nil {
		return ListingRequest{}, err
	}
	if q.MaxPrice, err = price(v, "maxPrice"); err != nil {
		return ListingRequest{}, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return ListingRequest{}, errs.Validation("minPrice cannot exceed maxPrice")
	}

	return ListingRequest{Query: q, Page: page, Limit: limit}, nil
}

func positiveInt(v url.Values, key string, def int) (int, error) {
	s := v.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errs.Validationf("%s must be a positive integer", key)
	}
	return n, nil
}

// pageSkip returns the number of documents before page. Pages whose offset
// does not fit in an int64 are rejected.
func pageSkip(page, limit int) (int64, error) {
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return 0, errs.Validation("page is too large")
	}
	return int64(page-1) * int64(limit), nil
}

func price(v url.Values, key string) (*float64, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errs.Validationf("%s must be a number", key)
	}
	return &f, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
