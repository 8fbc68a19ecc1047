// Package cache holds measurement results keyed by file identity.
package cache

import (
	"sync"
)

// DefaultCapacity is used when a non-positive capacity is given
const DefaultCapacity = 256

// LRU is a thread-safe least recently used cache
type LRU[K comparable, V any] struct {
	mutex    sync.Mutex
	capacity int
	items    map[K]*node[K, V]
	head     *node[K, V] // sentinel, most recently used follows
	tail     *node[K, V] // sentinel, least recently used precedes
	hits     int64
	misses   int64
}

type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Stats describes cache usage
type Stats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate_percent"`
	Size     int     `json:"current_size"`
	Capacity int     `json:"max_capacity"`
}

// NewLRU creates a cache holding at most capacity entries
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V]),
		head:     &node[K, V]{},
		tail:     &node[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns the value for key and marks it as recently used
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, ok := c.items[key]; ok {
		c.unlink(n)
		c.pushFront(n)
		c.hits++
		return n.value, true
	}

	c.misses++
	var zero V
	return zero, false
}

// Put adds or replaces the value for key, evicting the least recently used
// entry when the cache is full
func (c *LRU[K, V]) Put(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.unlink(n)
		c.pushFront(n)
		return
	}

	n := &node[K, V]{key: key, value: value}
	c.pushFront(n)
	c.items[key] = n

	if len(c.items) > c.capacity {
		lru := c.tail.prev
		c.unlink(lru)
		delete(c.items, lru.key)
	}
}

// Remove deletes key and reports whether it was present
func (c *LRU[K, V]) Remove(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// Len returns the number of cached entries
func (c *LRU[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counters
func (c *LRU[K, V]) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var rate float64
	if total := c.hits + c.misses; total > 0 {
		rate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  rate,
		Size:     len(c.items),
		Capacity: c.capacity,
	}
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
