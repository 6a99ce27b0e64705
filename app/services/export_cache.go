package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExportCache caches rendered export documents keyed by list identity and
// revision so unchanged lists are not re-rendered on every download.
type ExportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, doc []byte) error
}

// RedisExportCache implements ExportCache on Redis.
type RedisExportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisExportCache creates a Redis-backed export cache
func NewRedisExportCache(client *redis.Client, prefix string, ttl time.Duration) *RedisExportCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisExportCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached document, if present
func (c *RedisExportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	doc, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("export cache read failed: %w", err)
	}
	return doc, true, nil
}

// Set stores the document with the configured TTL
func (c *RedisExportCache) Set(ctx context.Context, key string, doc []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, doc, c.ttl).Err(); err != nil {
		return fmt.Errorf("export cache write failed: %w", err)
	}
	return nil
}

// NoopExportCache is used when caching is disabled.
type NoopExportCache struct{}

// Get always misses
func (NoopExportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the document
func (NoopExportCache) Set(ctx context.Context, key string, doc []byte) error {
	return nil
}
