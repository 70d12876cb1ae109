package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ssenti/levit-3/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// entry is a single cached value with its expiration deadline
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support, used to
// avoid repeating the web-search call for recently seen supplement categories.
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts its janitor
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]entry),
	}
	go c.janitor(defaultCleanupInterval)
	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.data[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with a TTL. Values are JSON round-tripped so reads see
// the same shapes a networked cache would return.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = entry{
		value:     stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.data[key]
	if !exists || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry)
}

// janitor periodically evicts expired entries
func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mutex.Lock()
		for key, e := range c.data {
			if now.After(e.expiresAt) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
