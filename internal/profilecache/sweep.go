package profilecache

import (
	"context"
	"time"
)

// sweepLoop periodically drops stale entries until ctx is cancelled. A full
// scan per tick keeps ownership simple: one goroutine, no per-entry timers.
func (c *Cache) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep removes every stale entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.removeStaleLocked(now)
	c.stats.swept.Add(uint64(removed))

	return removed
}
