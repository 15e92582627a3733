package predict

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
)

// CachedPredictor wraps a Predictor with an in-memory LRU cache keyed by the
// full input vector. Entries older than the TTL are refetched.
type CachedPredictor struct {
	inner   domain.Predictor
	cache   *lruCache[domain.PredictOutput]
	metrics *observability.Metrics
}

// NewCachedPredictor creates a cache decorator around a predictor. A ttl of
// zero keeps entries until they are evicted.
func NewCachedPredictor(inner domain.Predictor, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedPredictor {
	return &CachedPredictor{
		inner:   inner,
		cache:   newLRUCache[domain.PredictOutput](maxEntries, ttl),
		metrics: metrics,
	}
}

func (c *CachedPredictor) Predict(ctx context.Context, in domain.PredictInput) (domain.PredictOutput, error) {
	key := cacheKey(in)
	if out, ok := c.cache.get(key); ok {
		c.metrics.PredictCache.WithLabelValues("hit").Inc()
		return out, nil
	}
	c.metrics.PredictCache.WithLabelValues("miss").Inc()

	out, err := c.inner.Predict(ctx, in)
	if err != nil {
		return out, err
	}
	c.cache.put(key, out)
	return out, nil
}

func cacheKey(in domain.PredictInput) string {
	return fmt.Sprintf("%d|%s|%g|%g|%g", in.Year, in.Season, in.Rain, in.Temp, in.LagDischarge)
}

// lruCache is a small thread-safe LRU cache with optional expiry.
type lruCache[V any] struct {
	maxEntries int
	ttl        time.Duration
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
	prev    *entry[V]
	next    *entry[V]
}

func newLRUCache[V any](maxEntries int, ttl time.Duration) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		c.remove(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = domain.Now().Add(c.ttl)
	}

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && !domain.Now().Before(e.expires)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
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

func (c *lruCache[V]) remove(e *entry[V]) {
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

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
