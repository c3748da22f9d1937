// Package cachemanager is a typed wrapper over go-cache for lookups that are
// recomputed on every refresh tick.
package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/JoeRobich/fd-editorminimap/internal/log"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
	// NoExpiration keeps an entry until it is deleted or the cache flushed.
	NoExpiration = gocache.NoExpiration
)

// Cache maps string keys to values of one type.
type Cache[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// New creates a cache. useCase names it in logs.
func New[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item by key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatLang, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zero, false
	}
	return v, true
}

// Set stores value under key for ttl.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Errors are returned and not cached.
func (c *Cache[V]) GetOrLoad(key string, ttl time.Duration, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

// Delete removes keys.
func (c *Cache[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush removes every item.
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// Len returns the number of items, including expired ones not yet cleaned up.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
