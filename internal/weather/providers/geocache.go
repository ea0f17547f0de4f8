package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// CachedProvider decorates a weather.Provider with an in-memory LRU cache on
// the geocoding endpoint. Geocoding results are stable over time, so caching
// them removes one outbound call from every snapshot fetch. Only non-empty
// result sets are cached so "not found" queries can be retried.
type CachedProvider struct {
	weather.Provider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider wraps inner with a geocode cache of at most maxEntries.
func NewCachedProvider(inner weather.Provider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		Provider: inner,
		cache:    newLRUCache(maxEntries),
		metrics:  metrics,
	}
}

func (c *CachedProvider) Geocode(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	key := fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(query)), limit)
	if locations, ok := c.cache.get(key); ok {
		c.count("hit")
		return locations, nil
	}
	c.count("miss")

	locations, err := c.Provider.Geocode(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 {
		c.cache.put(key, locations)
	}
	return locations, nil
}

func (c *CachedProvider) count(result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a small thread-safe LRU for geocoding results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []weather.Location
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]weather.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []weather.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
