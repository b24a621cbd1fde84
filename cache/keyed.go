package cache

import (
	"context"
	"sync"
	"time"
)

// Fetcher produces the value for key. It is called at most once per key
// at a time by a Keyed cache.
type Fetcher[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// call is a fetch in progress. val and err are written once, before done
// is closed.
type call[V any] struct {
	done    chan struct{}
	val     V
	err     error
	waiters int
	cancel  context.CancelFunc
}

// Keyed memoizes the results of a Fetcher per key and coalesces concurrent
// lookups of the same key into a single fetch.
//
// A Keyed is safe for concurrent use. The zero value is not usable; create
// one with NewKeyed.
type Keyed[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]entry[V]
	inflight map[K]*call[V]
	cfg      config
}

// NewKeyed returns an empty Keyed cache.
func NewKeyed[K comparable, V any](opts ...Option) *Keyed[K, V] {
	return &Keyed[K, V]{
		entries:  make(map[K]entry[V]),
		inflight: make(map[K]*call[V]),
		cfg:      applyOptions(opts),
	}
}

// Now returns the current time on the cache's clock, the same clock that
// stamps stored entries.
func (c *Keyed[K, V]) Now() time.Time {
	return c.cfg.now()
}

func (c *Keyed[K, V]) fresh(e entry[V]) bool {
	return c.cfg.ttl <= 0 || c.cfg.now().Sub(e.storedAt) < c.cfg.ttl
}

// Get returns the value for key. A fresh stored value is returned without
// waiting. Otherwise Get joins the fetch already running for key, or starts
// one with fetch. A successful result is stored and handed to every caller
// waiting on that fetch; an error is handed to the same callers and nothing
// is stored, so the next Get starts over.
//
// The fetch does not run on ctx. If ctx is done before the fetch settles,
// Get returns ctx.Err() to this caller only. The fetch is cancelled once
// every caller waiting on it has gone away.
func (c *Keyed[K, V]) Get(ctx context.Context, key K, fetch Fetcher[K, V]) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		c.mu.Unlock()
		c.cfg.observer.Hit(c.cfg.name)
		c.trace("hit %v", key)
		return e.value, nil
	}
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		var zero V
		return zero, err
	}
	cl, ok := c.inflight[key]
	if ok {
		cl.waiters++
		c.mu.Unlock()
		c.cfg.observer.Join(c.cfg.name)
		c.trace("joined in-flight fetch for %v", key)
	} else {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		cl = &call[V]{done: make(chan struct{}), waiters: 1, cancel: cancel}
		c.inflight[key] = cl
		c.mu.Unlock()
		c.cfg.observer.Miss(c.cfg.name)
		c.trace("fetching %v", key)
		go c.run(fctx, key, cl, fetch)
	}
	return c.wait(ctx, key, cl)
}

func (c *Keyed[K, V]) run(ctx context.Context, key K, cl *call[V], fetch Fetcher[K, V]) {
	val, err := fetch(ctx, key)
	c.mu.Lock()
	if err == nil {
		c.entries[key] = entry[V]{value: val, storedAt: c.cfg.now()}
	}
	if c.inflight[key] == cl {
		delete(c.inflight, key)
	}
	cl.val, cl.err = val, err
	close(cl.done)
	c.mu.Unlock()
	cl.cancel()
	if err != nil {
		c.cfg.observer.Error(c.cfg.name)
		c.trace("fetch for %v failed: %s", key, err)
	}
}

func (c *Keyed[K, V]) wait(ctx context.Context, key K, cl *call[V]) (V, error) {
	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
	}
	c.mu.Lock()
	select {
	case <-cl.done:
		// settled while we were giving up, the result is ours to return
		c.mu.Unlock()
		return cl.val, cl.err
	default:
	}
	cl.waiters--
	if cl.waiters == 0 {
		// nobody is left to receive the result
		if c.inflight[key] == cl {
			delete(c.inflight, key)
		}
		cl.cancel()
		c.trace("abandoned fetch for %v", key)
	}
	c.mu.Unlock()
	var zero V
	return zero, ctx.Err()
}

// Peek returns the stored value for key if it is fresh. It never fetches.
func (c *Keyed[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of stored entries, stale ones included.
func (c *Keyed[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending returns the number of fetches currently in flight.
func (c *Keyed[K, V]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

func (c *Keyed[K, V]) trace(msg string, args ...any) {
	if c.cfg.logger != nil {
		c.cfg.logger.WithPrefix("[" + c.cfg.name + "]").Trace(msg, args...)
	}
}
