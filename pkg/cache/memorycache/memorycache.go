package memorycache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/authone/authone/pkg/cache"
)

// entry is a cached value with its expiry.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Cache implements an LRU cache with TTL support, suitable for caching
// access-check decisions in a single process.
type Cache struct {
	mu sync.Mutex

	items     map[string]*list.Element
	evictList *list.List // front = most recently used

	maxEntries int

	hits        uint64
	misses      uint64
	keysAdded   uint64
	keysEvicted uint64
}

// New creates a Cache holding at most maxEntries values. A non-positive
// limit falls back to a sensible default.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Cache{
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
		maxEntries: maxEntries,
	}
}

// Get retrieves a value, refreshing its LRU position. Expired entries are
// removed on access.
func (c *Cache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if !ent.expiresAt.IsZero() && time.Now().After(ent.expiresAt) {
		c.removeElement(elem)
		c.misses++
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Set stores a value, evicting the least recently used entry when full.
// A zero TTL stores the value without expiry.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.evictList.MoveToFront(elem)
		return nil
	}

	elem := c.evictList.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem
	c.keysAdded++

	for c.evictList.Len() > c.maxEntries {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.keysEvicted++
	}
	return nil
}

// Delete removes a value.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

// Close releases resources. The memory cache has none beyond its maps.
func (c *Cache) Close() error {
	return c.Clear(context.Background())
}

// Metrics returns hit/miss statistics.
func (c *Cache) Metrics() *cache.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &cache.Metrics{
		Hits:        c.hits,
		Misses:      c.misses,
		KeysAdded:   c.keysAdded,
		KeysEvicted: c.keysEvicted,
	}
}

// Len returns the current number of entries, including not-yet-expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// removeElement deletes an entry. Caller holds mu.
func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(c.items, ent.key)
}
