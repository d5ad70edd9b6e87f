// Package cache provides the bounded, time-expiring result memo used by the
// NLU engine.
//
// Unlike an LRU, entries are never evicted just for being old while still
// inside their TTL: capacity pressure triggers a full expiry sweep, and if
// the cache is still full the write is skipped. Skipping a write is always
// non-fatal; the caller returns its freshly computed result either way.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache is a mutex-guarded TTL memo with hit/miss accounting.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	capacity int
	ttl      time.Duration
	hits     int64
	misses   int64
}

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Stats is the operational snapshot of the cache.
type Stats struct {
	Size          int     `json:"size"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	TotalRequests int64   `json:"total_requests"`
	HitRate       float64 `json:"hit_rate"`
}

// New creates a cache. Non-positive capacity or TTL fall back to the
// defaults (1000 entries, 1 hour).
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache[V]{
		entries:  make(map[string]entry[V]),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get returns the cached value for key if present and not expired.
// Every call counts toward the hit/miss statistics.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Since(e.createdAt) > c.ttl {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value. Under capacity pressure it sweeps expired entries
// first; if the cache is still full the write is dropped.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		swept := c.sweepLocked()
		if len(c.entries) >= c.capacity {
			slog.Debug("result cache full, skipping write", "capacity", c.capacity, "swept", swept)
			return
		}
	}
	c.entries[key] = entry[V]{value: value, createdAt: time.Now()}
}

// sweepLocked removes every entry whose age exceeds the TTL.
// Must be called with the lock held.
func (c *Cache[V]) sweepLocked() int {
	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.createdAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

// Clear drops every entry and resets the hit/miss counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	c.hits = 0
	c.misses = 0
}

// Resize adjusts capacity and TTL at runtime. Non-positive arguments keep
// the current values. Existing entries survive until they expire or a sweep
// under pressure removes them.
func (c *Cache[V]) Resize(capacity int, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if capacity > 0 {
		c.capacity = capacity
	}
	if ttl > 0 {
		c.ttl = ttl
	}
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:          len(c.entries),
		Hits:          c.hits,
		Misses:        c.misses,
		TotalRequests: total,
		HitRate:       rate,
	}
}

// Size returns the number of live entries (expired ones included until a
// sweep or lookup removes them).
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
