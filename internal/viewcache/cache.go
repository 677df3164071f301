// Package viewcache caches rendered view data in Redis. The credit score
// view keeps results for 24 hours and the dashboard for a few minutes,
// mirroring the freshness windows the product expects; concurrent fetches
// for the same key are collapsed into a single backend call.
package viewcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache wraps Redis-based JSON caching with singleflight dedup. A nil Redis
// client degrades to calling the loader directly, so the frontend stays up
// when Redis is absent.
type Cache struct {
	client *redis.Client
	group  singleflight.Group
}

// New instantiates the cache helper.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// FetchJSON loads the cached value for key into dest, populating it with
// loader on a miss. The loader result is stored with the given TTL.
func (c *Cache) FetchJSON(ctx context.Context, key string, ttl time.Duration, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("viewcache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("viewcache: get %s: %w", key, err)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the key while we queued.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return raw, nil
		}
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return nil, fmt.Errorf("viewcache: set %s: %w", key, err)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), dest)
}

// Invalidate removes keys, for refresh controls that bypass the cache.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("viewcache: del: %w", err)
	}
	return nil
}

func reencode(value, dest any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
