// Package streamtest has a manual clock for driving debounce windows in tests
package streamtest

import (
	"sort"
	"sync"
	"time"

	"cheesefinder/internal/stream"
)

// ManualClock only moves when Advance is called
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   int
	f     func()
}

// NewManualClock returns a clock at t=0
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc registers f to run once the clock has advanced by d
func (c *ManualClock) AfterFunc(d time.Duration, f func()) stream.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d and runs due timers on the caller's
// goroutine, earliest first
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.Slice(c.timers, func(i, j int) bool {
			if c.timers[i].at == c.timers[j].at {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].at < c.timers[j].at
		})
		if len(c.timers) == 0 || c.timers[0].at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Now returns the elapsed manual time
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have not fired or been stopped
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
