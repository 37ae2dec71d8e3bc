// Package cache provides an explicitly owned read-through cache with a time
// to live. A Cache is created by the composition root and passed to the
// components that read through it; nothing in the process reaches it ambiently.
//
// Entries are invalidated by:
//   - TTL expiry, checked on every read;
//   - Clear, which drops everything (exposed over HTTP);
//   - Sweep, which drops expired entries (run by a scheduled job).
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is safe for concurrent use. Concurrent misses for the same key share
// one load.
type Cache[K comparable, V any] struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.RWMutex
	entries    map[K]entry[V]
	generation uint64

	group singleflight.Group
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a cache whose entries live for ttl. A non-positive ttl
// disables caching: every read loads.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[K]entry[V]),
	}
}

// GetOrLoad returns the cached value for key, calling load on a miss or
// after expiry. Errors are not cached. A Clear that happens while a load is
// in flight wins: the loaded value is returned but not stored.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	res, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.store(key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Clear drops every entry and returns how many were dropped.
func (c *Cache[K, V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[K]entry[V])
	c.generation++
	return n
}

// Sweep drops expired entries and returns how many were dropped.
func (c *Cache[K, V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) store(key K, v V, gen uint64) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
}
