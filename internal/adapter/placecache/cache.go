// Package placecache decorates a place search provider with an in-memory LRU cache.
package placecache

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

// Searcher wraps a domain.PlaceSearcher. Queries are keyed case-insensitively.
type Searcher struct {
	inner   domain.PlaceSearcher
	cache   *lruCache
	metrics *observability.Metrics
}

// New creates a cache decorator holding at most maxEntries queries.
func New(inner domain.PlaceSearcher, maxEntries int, metrics *observability.Metrics) *Searcher {
	return &Searcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (s *Searcher) SearchPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if places, ok := s.cache.get(key); ok {
		s.metrics.PlaceSearchCache.WithLabelValues("hit").Inc()
		return clone(places), nil
	}
	s.metrics.PlaceSearchCache.WithLabelValues("miss").Inc()

	places, err := s.inner.SearchPlaces(ctx, query)
	if err != nil {
		return nil, err
	}
	// Empty answers are not cached so a retry can reach the provider.
	if len(places) > 0 {
		s.cache.put(key, clone(places))
	}
	return places, nil
}

func clone(p []domain.Place) []domain.Place {
	return append([]domain.Place(nil), p...)
}

// lruCache is a thread-safe LRU keyed by normalized query.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type entry struct {
	key    string
	places []domain.Place
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]domain.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).places, true
}

func (c *lruCache) put(key string, places []domain.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).places = places
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, places: places})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
