package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const invalidateBatch = 100

// Cache stores catalog responses as JSON under catalog:* keys. A nil *Cache
// is valid and caches nothing.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCache returns nil, a disabled cache, when client is nil or ttl <= 0.
func NewCache(client redis.UniversalClient, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetJSON decodes the value at key into dst and reports whether it was present.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate unlinks every key matching pattern, one SCAN page at a time, and
// returns how many were removed. The seeder calls it with "catalog:*".
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int, error) {
	if c == nil {
		return 0, nil
	}
	var (
		removed int
		cursor  uint64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, invalidateBatch).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Unlink(ctx, keys...).Result()
			removed += int(n)
			if err != nil {
				return removed, err
			}
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
