package resolver

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nafsi-health/contentcore/internal/content"
)

// Cache stores resolved documents keyed by "{type}/{slug}/{locale}".
// Entries expire after the configured TTL; backends may evict earlier
// under pressure. All operations are best-effort: a cache failure must
// never fail a resolution.
type Cache interface {
	Get(ctx context.Context, key string) (*content.Document, bool)
	Set(ctx context.Context, key string, doc *content.Document)
	Delete(ctx context.Context, key string)
	Purge(ctx context.Context)
}

// MemoryCache is the default in-process backend, an expirable LRU.
type MemoryCache struct {
	lru *expirable.LRU[string, *content.Document]
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a memory cache holding at most size entries,
// each expiring ttl after insertion.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, *content.Document](size, nil, ttl),
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*content.Document, bool) {
	return c.lru.Get(key)
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, doc *content.Document) {
	c.lru.Add(key, doc)
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.lru.Remove(key)
}

// Purge implements Cache.
func (c *MemoryCache) Purge(_ context.Context) {
	c.lru.Purge()
}
