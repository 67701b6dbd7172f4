package profilecache

import "sync/atomic"

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Stale     uint64 `json:"stale"`
	Evictions uint64 `json:"evictions"`
	Swept     uint64 `json:"swept"`
}

// counters are bumped on the read path, which may only hold the read lock,
// so they are atomic.
type counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	stale     atomic.Uint64
	evictions atomic.Uint64
	swept     atomic.Uint64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Hits:      c.stats.hits.Load(),
		Misses:    c.stats.misses.Load(),
		Stale:     c.stats.stale.Load(),
		Evictions: c.stats.evictions.Load(),
		Swept:     c.stats.swept.Load(),
	}
}
