package engine

import (
	"container/list"
	"sync"
	"time"

	"schedule-engine/internal/constraint"
)

// cacheKey is the structured identity of one cached evaluation: the
// schedule signature, the constraint, and a digest of its parameters.
// Correctness never depends on string formatting.
type cacheKey struct {
	Signature    uint64
	ConstraintID string
	ParamsHash   uint64
}

type cacheEntry struct {
	key      cacheKey
	result   constraint.Result
	storedAt time.Time
}

// resultCache is a bounded LRU with TTL expiry for constraint results.
// Writes are idempotent: re-storing the same key with the same inputs is
// safe, so callers need no lock beyond the cache's own.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	order   *list.List // front = most recently used
	entries map[cacheKey]*list.Element
}

func newResultCache(maxSize int, ttl time.Duration) *resultCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &resultCache{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		order:   list.New(),
		entries: make(map[cacheKey]*list.Element),
	}
}

// Get returns a copy of the cached result for key, if present and fresh.
func (c *resultCache) Get(key cacheKey) (constraint.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return constraint.Result{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.expired(entry) {
		c.remove(el)
		return constraint.Result{}, false
	}
	c.order.MoveToFront(el)
	return entry.result, true
}

// Put stores a result, evicting the least recently used entry when full.
func (c *resultCache) Put(key cacheKey, result constraint.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).result = result
		el.Value.(*cacheEntry).storedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, result: result, storedAt: c.now()})
	c.entries[key] = el

	for c.order.Len() > c.maxSize {
		c.remove(c.order.Back())
	}
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *resultCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*cacheEntry)) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Len reports the current number of cached results.
func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *resultCache) expired(entry *cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl
}

func (c *resultCache) remove(el *list.Element) {
	if el == nil {
		return
	}
	entry := el.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(el)
}
