package stream

import (
	"sync"
	"sync/atomic"
)

// Subscription is a handle on an active stream. Dispose releases whatever
// the stream registered; calling it again does nothing.
type Subscription interface {
	Dispose()
	IsDisposed() bool
}

type disposable struct {
	once     sync.Once
	disposed atomic.Bool
	release  func()
}

// NewSubscription returns a Subscription that runs release exactly once
func NewSubscription(release func()) Subscription {
	return &disposable{release: release}
}

func (d *disposable) Dispose() {
	d.once.Do(func() {
		d.disposed.Store(true)
		if d.release != nil {
			d.release()
		}
	})
}

func (d *disposable) IsDisposed() bool {
	return d.disposed.Load()
}

// Composite owns a set of subscriptions and disposes them together
type Composite struct {
	mu       sync.Mutex
	subs     []Subscription
	disposed bool
}

// Add takes ownership of s. If the composite is already disposed, s is
// disposed right away.
func (c *Composite) Add(s Subscription) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		s.Dispose()
		return
	}
	c.subs = append(c.subs, s)
	c.mu.Unlock()
}

// Dispose disposes every owned subscription in the order they were added
func (c *Composite) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
}

func (c *Composite) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
