// Package cache keeps listing search results in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dcode-github/gharbari/backend/metrics"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

const (
	keyPrefix   = "property:"
	scanPattern = keyPrefix + "*"
	scanCount   = 100
	DefaultTTL  = 10 * time.Minute

	// generationKey lives outside scanPattern so invalidation never deletes it.
	generationKey = "listing:generation"
)

// ListingKey hashes the normalized query, so two requests that parse to the
// same filter share an entry regardless of parameter order or spelling. The
// generation is bumped on every invalidation, which strands any page a
// search computed before the write that invalidated it.
func ListingKey(q store.ListingQuery, generation int64) string {
	raw, _ := json.Marshal(q)
	sum := sha256.Sum256(raw)
	return keyPrefix + strconv.FormatInt(generation, 10) + ":" + hex.EncodeToString(sum[:])
}

// Listings is a Redis-backed cache of listing pages. Errors are logged and
// treated as misses.
type Listings struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListings(client *redis.Client, ttl time.Duration) *Listings {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Listings{client: client, ttl: ttl}
}

// Key returns the cache key for q under the current generation. ok is false
// when the generation cannot be read, in which case the caller must bypass
// the cache.
func (c *Listings) Key(ctx context.Context, q store.ListingQuery) (string, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		slog.Warn("Redis GET error", slog.String("key", generationKey), slog.String("error", err.Error()))
		return "", false
	}
	return ListingKey(q, gen), true
}

func (c *Listings) Get(ctx context.Context, key string) (*models.PropertyPage, bool) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("error").Inc()
			slog.Warn("Redis GET error", slog.String("key", key), slog.String("error", err.Error()))
			return nil, false
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var page models.PropertyPage
	if err := json.Unmarshal(cached, &page); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		slog.Warn("Discarding undecodable cache entry", slog.String("key", key))
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &page, true
}

func (c *Listings) Set(ctx context.Context, key string, page *models.PropertyPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("Redis SET error", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Invalidate starts a new generation, then drops every cached listing page.
func (c *Listings) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Error("Redis INCR failed", slog.String("key", generationKey), slog.String("error", err.Error()))
	}

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			slog.Error("Redis SCAN failed", slog.String("pattern", scanPattern), slog.String("error", err.Error()))
			return
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Listing cache invalidation failed", slog.Int("keys", len(keys)), slog.String("error", err.Error()))
		return
	}
	slog.Debug("Listing cache invalidated", slog.Int("keys", len(keys)))
}
