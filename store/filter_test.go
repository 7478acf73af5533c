package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

func TestBuildListingFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, store.BuildListingFilter(store.ListingQuery{}))
}

func TestBuildListingFilter_ExactAndRange(t *testing.T) {
	ward := 4
	verified := false
	minPrice, maxPrice := 5000000.0, 20000000.0

	filter := store.BuildListingFilter(store.ListingQuery{
		City:       "Bhaktapur",
		WardNo:     &ward,
		Purpose:    models.PurposeSale,
		Status:     models.StatusAvailable,
		IsVerified: &verified,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
	})

	assert.Equal(t, "Bhaktapur", filter["city"])
	assert.Equal(t, 4, filter["wardNo"])
	assert.Equal(t, models.PurposeSale, filter["purpose"])
	assert.Equal(t, models.StatusAvailable, filter["status"])
	assert.Equal(t, false, filter["isVerified"])
	assert.Equal(t, bson.M{"$gte": 5000000.0, "$lte": 20000000.0}, filter["price"])
	assert.NotContains(t, filter, "municipality")
	assert.NotContains(t, filter, "$or")
}

func TestBuildListingFilter_OnlyMaxPrice(t *testing.T) {
	maxPrice := 100.0
	filter := store.BuildListingFilter(store.ListingQuery{MaxPrice: &maxPrice})
	assert.Equal(t, bson.M{"$lte": 100.0}, filter["price"])
}

func TestBuildListingFilter_SearchIsEscapedDisjunction(t *testing.T) {
	filter := store.BuildListingFilter(store.ListingQuery{Search: "Kathmandu (new)"})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)

	fields := []string{"title", "description", "areaName"}
	for i, clause := range or {
		m := clause.(bson.M)
		cond := m[fields[i]].(bson.M)
		rx := cond["$regex"].(primitive.Regex)
		assert.Equal(t, `Kathmandu \(new\)`, rx.Pattern)
		assert.Equal(t, "i", rx.Options)
	}
}

func TestBuildListingSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "datePosted", Value: -1}, {Key: "_id", Value: -1}},
		store.BuildListingSort(store.ListingQuery{SortDesc: true}))
	assert.Equal(t,
		bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
		store.BuildListingSort(store.ListingQuery{SortBy: "price"}))
}
