package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nafsi-health/contentcore/internal/content"
)

// redisKeyPrefix namespaces document entries so Purge can drop them
// without touching anything else living in the same Redis database.
const redisKeyPrefix = "contentcore:doc:"

// RedisCache is the shared cache backend for multi-instance
// deployments. Documents are stored as JSON with the configured TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a Redis-backed cache against addr.
func NewRedisCache(addr string, db int, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
		logger: logger.With("cache", "redis"),
	}
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (*content.Document, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var doc content.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt entry is dropped so it cannot keep poisoning reads.
		c.logger.Warn("dropping corrupt cache entry", "key", key, "error", err)
		c.client.Del(ctx, redisKeyPrefix+key)
		return nil, false
	}
	return &doc, true
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, doc *content.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// Purge implements Cache. Only keys under the document prefix are
// removed.
func (c *RedisCache) Purge(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("cache purge delete failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache purge scan failed", "error", err)
	}
}
