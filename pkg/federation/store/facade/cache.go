package facade

import (
	"sync"
	"time"

	"stratus-hq/federation/pkg/federation/policies"
)

// configCache is a thread-safe TTL cache for per-queue policy
// configurations with LRU eviction at capacity.
type configCache struct {
	entries    map[string]*cacheEntry
	ttl        time.Duration
	maxEntries int
	mu         sync.RWMutex
}

type cacheEntry struct {
	configuration  *policies.PolicyConfiguration
	expiresAt      time.Time
	lastAccessedAt time.Time
}

// newConfigCache creates a cache with the given TTL and capacity.
// A zero ttl disables expiry; a zero maxEntries means unlimited size.
func newConfigCache(ttl time.Duration, maxEntries int) *configCache {
	return &configCache{
		entries:    make(map[string]*cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// get returns the cached configuration for a queue, if present and fresh.
func (c *configCache) get(queue string) (*policies.PolicyConfiguration, bool) {
	c.mu.RLock()
	entry, ok := c.entries[queue]
	if !ok {
		c.mu.RUnlock()
		return nil, false
	}
	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		c.mu.RUnlock()
		return nil, false
	}
	configuration := entry.configuration
	c.mu.RUnlock()

	c.mu.Lock()
	if entry, ok := c.entries[queue]; ok {
		entry.lastAccessedAt = time.Now()
	}
	c.mu.Unlock()

	return configuration, true
}

// set caches a queue's configuration, evicting the least recently used
// entry when at capacity.
func (c *configCache) set(queue string, configuration *policies.PolicyConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[queue]; !exists {
			c.evictLRU()
		}
	}

	now := time.Now()
	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl)
	}
	c.entries[queue] = &cacheEntry{
		configuration:  configuration,
		expiresAt:      expiresAt,
		lastAccessedAt: now,
	}
}

// invalidate drops one queue's entry.
func (c *configCache) invalidate(queue string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, queue)
}

// flush drops all entries.
func (c *configCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *configCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictLRU removes the least recently accessed entry. Caller holds the
// write lock.
func (c *configCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
