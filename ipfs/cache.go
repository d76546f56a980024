package ipfs

import (
	"container/list"
	"encoding/json"
	"sync"
)

// Cache memoizes resolved documents for the lifetime of a session.
//
// A cache is a non-owning optimization, never a source of truth: content at
// a given address is immutable, so entries need no invalidation, and a miss
// merely triggers re-resolution. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the cached document for an address, if present.
	Get(address string) (json.RawMessage, bool)

	// Put stores a resolved document. The write must be atomic per address.
	Put(address string, doc json.RawMessage)

	// Clear discards all entries.
	Clear()
}

// MemoryCache is an in-process Cache backed by a map.
//
// With a positive maxEntries it evicts least-recently-used entries once the
// bound is reached; with zero it grows without bound, which is fine for
// session-scoped use since documents are small.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int
}

type cacheEntry struct {
	address string
	doc     json.RawMessage
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithMaxEntries bounds the cache to n entries with LRU eviction.
// Values <= 0 leave the cache unbounded.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.maxEntries = n
	}
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached document for an address, if present.
func (c *MemoryCache) Get(address string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[address]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).doc, true
}

// Put stores a document, evicting the least-recently-used entry if the
// cache is bounded and full. Storing under an existing address replaces
// the entry, though in practice content at an address never changes.
func (c *MemoryCache) Put(address string, doc json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[address]; ok {
		el.Value.(*cacheEntry).doc = doc
		c.order.MoveToFront(el)
		return
	}
	c.entries[address] = c.order.PushFront(&cacheEntry{address: address, doc: doc})
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).address)
		}
	}
}

// Clear discards all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of cached documents.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
