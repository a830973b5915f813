package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nordlayer/printing-platform/pkg/metrics"
)

const keyPrefix = "printing:"

// Stats reports cache hit/miss counters since process start.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Errors  int64 `json:"errors"`
	Enabled bool  `json:"enabled"`
}

// Cache is a thin JSON cache over Redis. A nil client disables caching:
// every operation becomes a no-op miss so callers never need to branch
// on whether Redis is configured.
type Cache struct {
	client *redis.Client
	logger *zap.Logger

	hits    int64
	misses  int64
	sets    int64
	deletes int64
	errors  int64
}

// New wraps a Redis client. Pass a nil client to run without caching.
func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

// Get unmarshals the cached value for key into dest. The second return
// value is false on a miss (or when caching is disabled).
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	data, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&c.misses, 1)
			metrics.CacheMisses.Inc()
			return false, nil
		}
		atomic.AddInt64(&c.errors, 1)
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		atomic.AddInt64(&c.errors, 1)
		return false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	atomic.AddInt64(&c.hits, 1)
	metrics.CacheHits.Inc()
	return true, nil
}

// Set stores value under key for ttl. Errors are returned but callers
// normally log and continue; a broken cache must not break reads.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		atomic.AddInt64(&c.errors, 1)
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		atomic.AddInt64(&c.errors, 1)
		return fmt.Errorf("cache delete: %w", err)
	}
	atomic.AddInt64(&c.deletes, int64(len(keys)))
	return nil
}

// DeletePattern removes every key matching pattern (glob syntax, without
// the internal prefix). Uses SCAN so large keyspaces do not block Redis.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				atomic.AddInt64(&c.errors, 1)
				return fmt.Errorf("cache delete pattern %q: %w", pattern, err)
			}
			atomic.AddInt64(&c.deletes, int64(len(batch)))
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		atomic.AddInt64(&c.errors, 1)
		return fmt.Errorf("cache scan %q: %w", pattern, err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			atomic.AddInt64(&c.errors, 1)
			return fmt.Errorf("cache delete pattern %q: %w", pattern, err)
		}
		atomic.AddInt64(&c.deletes, int64(len(batch)))
	}
	return nil
}

// Keys lists cached keys matching pattern, with the internal prefix stripped.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache keys %q: %w", pattern, err)
	}
	return keys, nil
}

// Stats snapshots the counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Sets:    atomic.LoadInt64(&c.sets),
		Deletes: atomic.LoadInt64(&c.deletes),
		Errors:  atomic.LoadInt64(&c.errors),
		Enabled: c.Enabled(),
	}
}

// Loader produces a value to warm into the cache.
type Loader func(ctx context.Context) (any, error)

// Warm preloads a set of keys at startup. Failures are logged and
// skipped; warming is best effort.
func (c *Cache) Warm(ctx context.Context, ttl time.Duration, loaders map[string]Loader) {
	if !c.Enabled() {
		return
	}
	for key, load := range loaders {
		value, err := load(ctx)
		if err != nil {
			c.logger.Warn("cache warm-up loader failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			c.logger.Warn("cache warm-up set failed", zap.String("key", key), zap.Error(err))
		}
	}
}
