package gateway

import (
	"sync"
	"time"
)

// cacheEntry holds one cached response until its expiry.
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// ttlCache is an in-memory TTL cache with insertion-order eviction: when the
// entry count exceeds the capacity, the oldest-inserted key is dropped.
// Expired entries are evicted lazily on read.
type ttlCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]cacheEntry
	order    []string
	now      func() time.Time
}

func newTTLCache(ttl time.Duration, capacity int) *ttlCache {
	if capacity <= 0 {
		capacity = 500
	}
	return &ttlCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Get returns the cached value for key, or ok=false if absent or expired.
func (c *ttlCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.dropFromOrder(key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key, evicting the oldest-inserted live entry if the
// cache is over capacity.
func (c *ttlCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}

	for len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *ttlCache) dropFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len reports the number of stored entries, including not-yet-reaped ones.
func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
