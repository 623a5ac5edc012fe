// Package cache memoises query results for callers that can say when their
// map changed. The library never invalidates anything by itself: callers
// bump a Version whenever the map is edited and include it in the key, so
// stale entries simply stop being asked for and age out of the LRU.
package cache

import (
	"sync"

	lru "github.com/zyedidia/generic/cache"
)

// Version is a caller-maintained token identifying one state of a map.
type Version uint64

// Stats counts cache traffic since creation or the last Reset.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Memo is a fixed-capacity LRU map safe for concurrent use.
type Memo[K comparable, V any] struct {
	mu       sync.Mutex
	entries  *lru.Cache[K, V]
	capacity int
	stats    Stats
}

// NewMemo creates a memo holding at most capacity entries. Capacities below
// one are raised to one.
func NewMemo[K comparable, V any](capacity int) *Memo[K, V] {
	capacity = max(capacity, 1)
	return &Memo[K, V]{
		entries:  lru.New[K, V](capacity),
		capacity: capacity,
	}
}

// Get returns the value stored under key and marks it recently used.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.entries.Get(key)
	if ok {
		m.stats.Hits++
	} else {
		m.stats.Misses++
	}
	return value, ok
}

// Put stores value under key, evicting the least recently used entry when
// the memo is full.
func (m *Memo[K, V]) Put(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries.Get(key); !exists && m.entries.Size() >= m.capacity {
		m.stats.Evictions++
	}
	m.entries.Put(key, value)
}

// Len returns the number of stored entries.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries.Size()
}

// Capacity returns the maximum number of entries.
func (m *Memo[K, V]) Capacity() int {
	return m.capacity
}

// Stats returns a snapshot of the counters.
func (m *Memo[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Reset drops every entry and zeroes the counters.
func (m *Memo[K, V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = lru.New[K, V](m.capacity)
	m.stats = Stats{}
}
