package validator

import (
	"sync"
	"time"

	"go.trai.ch/warden/internal/core/domain"
)

// Cache is a bounded, TTL-evicting store of validation results keyed by
// payload fingerprint. Only Valid results are stored: caching Invalid verdicts
// buys nothing (a corrected payload has a new fingerprint) and risks serving
// stale negatives. Eviction over capacity is oldest-insertion-first.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	order   []string
	size    int
	ttl     time.Duration
}

type cacheEntry struct {
	result     domain.ValidationResult
	insertedAt time.Time
}

// NewCache creates a cache bounded to size entries with the given TTL.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry, size),
		order:   make([]string, 0, size),
		size:    size,
		ttl:     ttl,
	}
}

// Get returns a copy of the cached result for the fingerprint, when present
// and within TTL. Expired entries read as misses; they are swept on the next
// Put.
func (c *Cache) Get(fingerprint string) (domain.ValidationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fingerprint]
	if !ok || time.Since(entry.insertedAt) > c.ttl {
		return domain.ValidationResult{}, false
	}
	return entry.result, true
}

// Put stores a result under the fingerprint, evicting the oldest entries when
// over capacity.
func (c *Cache) Put(fingerprint string, result domain.ValidationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; exists {
		// Overwrites refresh the entry's age, so its eviction slot moves to
		// the tail too.
		c.removeFromOrderLocked(fingerprint)
	}
	c.order = append(c.order, fingerprint)
	c.entries[fingerprint] = cacheEntry{result: result, insertedAt: time.Now()}

	c.sweepLocked()
	for len(c.order) > c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// removeFromOrderLocked drops the fingerprint's slot from the insertion
// order. Caller holds the write lock.
func (c *Cache) removeFromOrderLocked(fingerprint string) {
	for i, fp := range c.order {
		if fp == fingerprint {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// sweepLocked drops expired entries. Caller holds the write lock.
func (c *Cache) sweepLocked() {
	kept := c.order[:0]
	for _, fp := range c.order {
		entry, ok := c.entries[fp]
		if !ok {
			continue
		}
		if time.Since(entry.insertedAt) > c.ttl {
			delete(c.entries, fp)
			continue
		}
		kept = append(kept, fp)
	}
	c.order = kept
}
