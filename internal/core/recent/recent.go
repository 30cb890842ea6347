// Package recent holds the bounded set of item ids handled during this process lifetime
package recent

import "sync"

// DefaultCapacity is the number of ids kept when none is configured
const DefaultCapacity = 100

// Cache is a fixed capacity FIFO set. It is safe for concurrent use
type Cache struct {
	mu   sync.Mutex
	ring []string
	head int // next slot to overwrite once full
	set  map[string]struct{}
}

// New returns a cache holding at most capacity ids
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		ring: make([]string, 0, capacity),
		set:  make(map[string]struct{}, capacity),
	}
}

// Contains reports whether id is in the cache
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	_, ok := c.set[id]
	c.mu.Unlock()
	return ok
}

// Put inserts id, evicting the oldest entry when full.
// An id already present keeps its position
func (c *Cache) Put(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.set[id]; ok {
		return
	}
	if len(c.ring) < cap(c.ring) {
		c.ring = append(c.ring, id)
		c.set[id] = struct{}{}
		return
	}
	delete(c.set, c.ring[c.head])
	c.ring[c.head] = id
	c.set[id] = struct{}{}
	c.head = (c.head + 1) % len(c.ring)
}

// Len returns the number of ids held
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ring)
}

// Empty reports whether nothing has been put yet
func (c *Cache) Empty() bool { return c.Len() == 0 }
