// Package profilecache is the in-memory, TTL-bounded cache of canonical
// profiles keyed by username.
//
// Entries older than the TTL are treated as absent on read but stay in the
// map until overwritten. Two opt-in knobs bound memory: MaxEntries enables
// least-recently-used eviction and SweepInterval starts a background sweeper
// that drops stale entries. Both are off by default.
package profilecache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/roasbeef/pushclash/internal/profile"
)

// DefaultTTL is how long a fetched profile stays fresh.
const DefaultTTL = 10 * time.Minute

// Config controls cache freshness and capacity.
type Config struct {
	// TTL is the maximum age of a live entry. Zero or negative selects
	// DefaultTTL.
	TTL time.Duration

	// MaxEntries bounds the number of stored entries using LRU eviction.
	// Zero or negative means unbounded.
	MaxEntries int

	// SweepInterval is the period of the stale entry sweeper. Zero or
	// negative disables it.
	SweepInterval time.Duration

	// Now is the clock used for freshness checks. Nil selects time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL: DefaultTTL,
	}
}

// Entry is a cached profile together with the time it was fetched.
type Entry struct {
	Key       string
	Profile   *profile.Profile
	FetchedAt time.Time
}

// fresh reports whether the entry is younger than ttl at now.
func (e *Entry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Cache is a concurrency-safe profile cache. The zero value is not usable;
// create one with New.
type Cache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu    sync.RWMutex
	items map[string]*list.Element

	// lru orders entries from most (front) to least (back) recently used.
	// It is only maintained when maxEntries > 0.
	lru *list.List

	stats counters

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a cache and starts the sweeper when configured.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Cache{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        cfg.Now,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		cancel:     cancel,
	}

	if cfg.SweepInterval > 0 {
		c.wg.Add(1)
		go c.sweepLoop(ctx, cfg.SweepInterval)
	}

	return c
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the entry for key if it exists and is still fresh. Stale
// entries are reported as absent but left in place.
func (c *Cache) Get(key string) (Entry, bool) {
	now := c.now()

	if c.maxEntries <= 0 {
		c.mu.RLock()
		defer c.mu.RUnlock()

		return c.lookupLocked(key, now)
	}

	// A bounded cache has to touch the recency list, which is a write.
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookupLocked(key, now)
	if ok {
		c.lru.MoveToFront(c.items[key])
	}

	return entry, ok
}

func (c *Cache) lookupLocked(key string, now time.Time) (Entry, bool) {
	el, ok := c.items[key]
	if !ok {
		c.stats.misses.Add(1)
		return Entry{}, false
	}

	e := el.Value.(*Entry)
	if !e.fresh(now, c.ttl) {
		c.stats.stale.Add(1)
		return Entry{}, false
	}

	c.stats.hits.Add(1)

	return *e, true
}

// Put stores p under key, replacing any previous entry and resetting its
// fetch time.
func (c *Cache) Put(key string, p *profile.Profile) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*Entry)
		e.Profile = p
		e.FetchedAt = now
		if c.maxEntries > 0 {
			c.lru.MoveToFront(el)
		}

		return
	}

	c.items[key] = c.lru.PushFront(&Entry{
		Key:       key,
		Profile:   p,
		FetchedAt: now,
	})

	c.evictLocked(now)
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Close stops the sweeper. It is safe to call more than once. Get and Put
// keep working after Close.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
	})

	return nil
}

// evictLocked enforces MaxEntries. Stale entries are reclaimed first so live
// keys keep their LRU order.
func (c *Cache) evictLocked(now time.Time) {
	if c.maxEntries <= 0 || len(c.items) <= c.maxEntries {
		return
	}

	c.stats.evictions.Add(uint64(c.removeStaleLocked(now)))

	for len(c.items) > c.maxEntries {
		el := c.lru.Back()
		if el == nil {
			return
		}
		c.removeLocked(el)
		c.stats.evictions.Add(1)
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	delete(c.items, el.Value.(*Entry).Key)
	c.lru.Remove(el)
}

// removeStaleLocked drops every stale entry and returns how many went.
func (c *Cache) removeStaleLocked(now time.Time) int {
	var removed int
	for _, el := range c.items {
		if !el.Value.(*Entry).fresh(now, c.ttl) {
			c.removeLocked(el)
			removed++
		}
	}

	return removed
}
