// Package stream composes event sources into pipelines: filter, map, merge,
// debounce and hops between schedulers. Teardown flows from the outermost
// Subscription back to every producer that was registered.
package stream

import (
	"sync"
	"sync/atomic"
	"time"

	"cheesefinder/internal/scheduler"
)

// Source produces values to a subscriber until the returned Subscription is
// disposed
type Source[T any] interface {
	Subscribe(emit func(T)) Subscription
}

// SourceFunc adapts a function to Source
type SourceFunc[T any] func(emit func(T)) Subscription

// Subscribe calls f(emit)
func (f SourceFunc[T]) Subscribe(emit func(T)) Subscription {
	return f(emit)
}

// Create builds a Source from a producer. produce is called on every
// Subscribe and returns the function that unregisters it; that function runs
// exactly once, on Dispose. Values emitted after Dispose are dropped.
func Create[T any](produce func(emit func(T)) (cancel func())) Source[T] {
	return SourceFunc[T](func(emit func(T)) Subscription {
		var disposed atomic.Bool
		cancel := produce(func(v T) {
			if !disposed.Load() {
				emit(v)
			}
		})
		return NewSubscription(func() {
			disposed.Store(true)
			if cancel != nil {
				cancel()
			}
		})
	})
}

// Filter passes on values for which keep returns true
func Filter[T any](src Source[T], keep func(T) bool) Source[T] {
	return SourceFunc[T](func(emit func(T)) Subscription {
		return src.Subscribe(func(v T) {
			if keep(v) {
				emit(v)
			}
		})
	})
}

// Map transforms each value with fn
func Map[T, R any](src Source[T], fn func(T) R) Source[R] {
	return SourceFunc[R](func(emit func(R)) Subscription {
		return src.Subscribe(func(v T) {
			emit(fn(v))
		})
	})
}

// Do calls fn for each value before passing it on unchanged
func Do[T any](src Source[T], fn func(T)) Source[T] {
	return SourceFunc[T](func(emit func(T)) Subscription {
		return src.Subscribe(func(v T) {
			fn(v)
			emit(v)
		})
	})
}

// Merge interleaves values from all sources in arrival order. Emissions are
// serialized, so the subscriber never sees two values at once.
func Merge[T any](srcs ...Source[T]) Source[T] {
	return SourceFunc[T](func(emit func(T)) Subscription {
		var mu sync.Mutex
		all := &Composite{}
		for _, src := range srcs {
			all.Add(src.Subscribe(func(v T) {
				mu.Lock()
				defer mu.Unlock()
				if all.IsDisposed() {
					return
				}
				emit(v)
			}))
		}
		return all
	})
}

// Debounce emits a value only after window has passed without a newer one.
// Each new value restarts the window; the pending value is discarded on
// Dispose.
func Debounce[T any](src Source[T], window time.Duration, clock Clock) Source[T] {
	if clock == nil {
		clock = RealClock
	}
	return SourceFunc[T](func(emit func(T)) Subscription {
		var (
			mu       sync.Mutex
			timer    Timer
			gen      uint64
			disposed bool
		)
		upstream := src.Subscribe(func(v T) {
			mu.Lock()
			defer mu.Unlock()
			if disposed {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			gen++
			mine := gen
			timer = clock.AfterFunc(window, func() {
				mu.Lock()
				// a newer value or Dispose got here first
				if disposed || mine != gen {
					mu.Unlock()
					return
				}
				timer = nil
				mu.Unlock()
				emit(v)
			})
		})
		return NewSubscription(func() {
			upstream.Dispose()
			mu.Lock()
			disposed = true
			if timer != nil {
				timer.Stop()
				timer = nil
			}
			mu.Unlock()
		})
	})
}

// ObserveOn delivers each value on s. Values that reach s after Dispose are
// dropped.
func ObserveOn[T any](src Source[T], s scheduler.Scheduler) Source[T] {
	return SourceFunc[T](func(emit func(T)) Subscription {
		var disposed atomic.Bool
		upstream := src.Subscribe(func(v T) {
			s.Schedule(func() {
				if disposed.Load() {
					return
				}
				emit(v)
			})
		})
		return NewSubscription(func() {
			disposed.Store(true)
			upstream.Dispose()
		})
	})
}
