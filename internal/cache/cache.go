package cache

import (
	"sync"
	"time"

	"booru-bridge/internal/metrics"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
	seq      uint64
}

type queued[K comparable] struct {
	key K
	seq uint64
}

// Cache is a bounded key/value store with lazy expiry on read and
// oldest-inserted-first eviction at capacity. All methods are safe for
// concurrent use.
type Cache[K comparable, V any] struct {
	name       string
	maxEntries int
	maxAge     time.Duration

	mu      sync.Mutex
	entries map[K]entry[V]
	queue   []queued[K] // insertion order, oldest first
	nextSeq uint64

	// now is swappable in tests
	now func() time.Time
}

// New creates a cache holding at most maxEntries values, each considered
// absent once older than maxAge. The name labels the cache in metrics.
func New[K comparable, V any](name string, maxEntries int, maxAge time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		name:       name,
		maxEntries: maxEntries,
		maxAge:     maxAge,
		entries:    make(map[K]entry[V]),
		now:        time.Now,
	}
}

// Get returns the stored value for key. An entry older than maxAge is
// treated identically to a miss and dropped.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.maxAge {
		delete(c.entries, key)
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Put inserts or overwrites the value for key and stamps it with the
// current time. Overwriting counts as a fresh insertion for eviction
// ordering.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.nextSeq++
	c.entries[key] = entry[V]{value: value, storedAt: c.now(), seq: c.nextSeq}
	c.queue = append(c.queue, queued[K]{key: key, seq: c.nextSeq})

	if len(c.queue) >= 2*c.maxEntries {
		c.compact()
	}
}

// compact drops queue slots whose sequence no longer matches a live
// entry. Expired reads and overwrites orphan their slots without
// touching the queue, so the queue must be rebuilt periodically to
// stay proportional to maxEntries.
func (c *Cache[K, V]) compact() {
	live := c.queue[:0]
	for _, q := range c.queue {
		if e, ok := c.entries[q.key]; ok && e.seq == q.seq {
			live = append(live, q)
		}
	}
	clear(c.queue[len(live):])
	c.queue = live
}

// evictOldest removes the least-recently-inserted live entry. Queue
// slots whose sequence no longer matches the map entry belong to keys
// that were overwritten later and are skipped.
func (c *Cache[K, V]) evictOldest() {
	for len(c.queue) > 0 {
		head := c.queue[0]
		c.queue = c.queue[1:]
		e, ok := c.entries[head.key]
		if !ok || e.seq != head.seq {
			continue
		}
		delete(c.entries, head.key)
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		return
	}
}

// Len returns the number of stored entries, including any not yet
// dropped by lazy expiry.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
