package utils

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value    V
	cachedAt time.Time
}

// Cache is a small TTL cache keyed by K. The dispatcher uses it to avoid
// re-reading unchanged email templates on every run.
type Cache[K comparable, V any] struct {
	entries map[K]cacheEntry[V]
	ttl     time.Duration
	mutex   sync.RWMutex
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		entries: map[K]cacheEntry[V]{},
		ttl:     ttl,
	}
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, cachedAt: time.Now()}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.cachedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}
