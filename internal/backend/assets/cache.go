package assets

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const existsKeyPrefix = "asset:exists:"

// CachedStore remembers Exists answers in Redis so that resolving images for a
// search does not hit the backing store once per result. Redis failures fall
// through to the wrapped store.
type CachedStore struct {
	Store
	client redis.UniversalClient
	ttl    time.Duration
	scope  string
}

// NewCachedStore wraps inner. scope separates collections that share a Redis.
func NewCachedStore(inner Store, client redis.UniversalClient, scope string, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		Store:  inner,
		client: client,
		ttl:    ttl,
		scope:  scope,
	}
}

func (c *CachedStore) cacheKey(key string) string {
	return existsKeyPrefix + c.scope + ":" + key
}

func (c *CachedStore) Exists(ctx context.Context, key string) (bool, error) {
	cacheKey := c.cacheKey(key)
	cached, err := c.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		slog.Warn("asset cache lookup failed", "key", key, "error", err)
	}

	exists, err := c.Store.Exists(ctx, key)
	if err != nil {
		return false, err
	}

	value := "0"
	if exists {
		value = "1"
	}
	if err := c.client.Set(ctx, cacheKey, value, c.ttl).Err(); err != nil {
		slog.Warn("asset cache store failed", "key", key, "error", err)
	}
	return exists, nil
}
