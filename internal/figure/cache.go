package figure

import (
	"sync"

	"github.com/dingshijian/tornado-dashboard/internal/observability"
)

// CachedBuilder wraps a Builder with an in-memory LRU cache keyed by year.
// The store and boundary are immutable per process, so a cached figure
// never needs invalidation.
type CachedBuilder struct {
	inner   *Builder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedBuilder creates a cache decorator around a Builder.
func NewCachedBuilder(inner *Builder, maxEntries int, metrics *observability.Metrics) *CachedBuilder {
	return &CachedBuilder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Build returns the cached figure for year, building and caching it on miss.
func (c *CachedBuilder) Build(year int) *Figure {
	if fig, ok := c.cache.get(year); ok {
		c.metrics.FigureCache.WithLabelValues("hit").Inc()
		return fig
	}
	c.metrics.FigureCache.WithLabelValues("miss").Inc()

	fig := c.inner.Build(year)
	c.cache.put(year, fig)
	return fig
}

// lruCache is a simple thread-safe LRU cache for built figures.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[int]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	year  int
	value *Figure
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[int]*entry),
	}
}

func (c *lruCache) get(year int) (*Figure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[year]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(year int, value *Figure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[year]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{year: year, value: value}
	c.entries[year] = e
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
	delete(c.entries, c.tail.year)
	c.remove(c.tail)
}
