package cache

import (
	"sync"
	"time"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = time.Hour

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TimedCache is a key/value store whose entries expire ttl after they were
// stored. Expiry is pull-only: a stale entry is removed by the read that
// discovers it, never by a background sweep.
type TimedCache[K comparable, V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	store store[K, V]
}

type options struct {
	now      func() time.Time
	capacity int
}

type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCapacity bounds the cache with LRU eviction. Zero keeps it unbounded.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

func New[K comparable, V any](ttl time.Duration, opts ...Option) (*TimedCache[K, V], error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	var s store[K, V]
	if o.capacity > 0 {
		ls, err := newLRUStore[K, V](o.capacity)
		if err != nil {
			return nil, err
		}
		s = ls
	} else {
		s = newMapStore[K, V]()
	}

	return &TimedCache[K, V]{
		ttl:   ttl,
		now:   o.now,
		store: s,
	}, nil
}

func (c *TimedCache[K, V]) TTL() time.Duration { return c.ttl }

// Get returns the value stored under key unless it has expired, in which
// case the entry is dropped.
func (c *TimedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.store.get(key)
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.store.remove(key)
		return zero, false
	}
	return e.value, true
}

// Has is Get without the value, and evicts the same way.
func (c *TimedCache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *TimedCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.put(key, entry[V]{value: value, storedAt: c.now()})
}

// SetAt stores value as if it had been stored at storedAt. Used to restore
// persisted entries without resetting their age.
func (c *TimedCache[K, V]) SetAt(key K, value V, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.put(key, entry[V]{value: value, storedAt: storedAt})
}

func (c *TimedCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.remove(key)
}

func (c *TimedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.purge()
}

// Len counts stored entries, expired ones included until they are read.
func (c *TimedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}
