package riddle

import (
	"sync"
	"time"
)

// CooldownTracker enforces a minimum interval between graded guesses per
// user. Timestamps are recorded only for graded attempts, right or wrong; a
// rejected attempt never refreshes them. The map is process-local state and
// is not persisted.
type CooldownTracker struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
}

func NewCooldownTracker(interval time.Duration) *CooldownTracker {
	return &CooldownTracker{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Remaining returns how long the user must still wait, or zero when a guess
// may be graded now.
func (c *CooldownTracker) Remaining(user string, now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.last[user]
	if !ok {
		return 0
	}
	elapsed := now.Sub(last)
	if elapsed >= c.interval {
		return 0
	}
	return c.interval - elapsed
}

// Record stamps a graded attempt.
func (c *CooldownTracker) Record(user string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[user] = now
}

// Reset clears every timestamp. Only invoked on a new post when the
// deployment opts into per-riddle cooldowns.
func (c *CooldownTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = make(map[string]time.Time)
}
