package analyzer

import (
	"container/list"
	"crypto/sha256"
	"fmt"
	"sync"
)

// DefaultCacheSize is the LRU capacity applied when none is configured.
const DefaultCacheSize = 100

// Cache is a bounded in-memory LRU keyed by (code, analysis kind). It exists
// so repeated analyses of identical input skip the network call entirely.
// Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value any
}

// NewCache creates an LRU cache holding at most capacity entries.
// Non-positive capacities fall back to the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached value for (code, kind) and marks it most recently
// used.
func (c *Cache) Get(code string, kind Kind) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[cacheKey(code, kind)]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

// Put stores a value for (code, kind), evicting the least recently used
// entry when full.
func (c *Cache) Put(code string, kind Kind, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(code, kind)
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry).value = value
		return
	}

	el := c.ll.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = el

	if c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// cacheKey hashes the code so arbitrarily large snippets key compactly.
func cacheKey(code string, kind Kind) string {
	h := sha256.Sum256([]byte(string(kind) + ":" + code))
	return fmt.Sprintf("%x", h)
}
