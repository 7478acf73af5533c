package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

func TestListingKey(t *testing.T) {
	min := 100.0
	a := store.ListingQuery{City: "Kathmandu", MinPrice: &min, Limit: 10}
	b := store.ListingQuery{City: "Kathmandu", MinPrice: &min, Limit: 10}
	c := store.ListingQuery{City: "Kathmandu", MinPrice: &min, Limit: 10, Skip: 10}

	assert.True(t, strings.HasPrefix(ListingKey(a, 0), "property:0:"))
	assert.Equal(t, ListingKey(a, 3), ListingKey(b, 3))
	assert.NotEqual(t, ListingKey(a, 3), ListingKey(c, 3))
	assert.NotEqual(t, ListingKey(a, 3), ListingKey(a, 4), "a new generation strands older entries")
	assert.Len(t, ListingKey(a, 12), len("property:12:")+64)
	assert.False(t, strings.HasPrefix(generationKey, strings.TrimSuffix(scanPattern, "*")))
}

func TestListings_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewListings(client, 0)
	assert.Equal(t, DefaultTTL, c.ttl)

	ctx := context.Background()
	_, ok := c.Key(ctx, store.ListingQuery{City: "Pokhara"})
	assert.False(t, ok, "unknown generation bypasses the cache")

	_, ok = c.Get(ctx, "property:0:x")
	assert.False(t, ok)

	c.Set(ctx, "property:0:x", &models.PropertyPage{})
	c.Invalidate(ctx)
}
