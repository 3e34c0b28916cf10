package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"cheesefinder/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventPipelineStarted = domain.EventPipelineStarted
	EventPipelineStopped = domain.EventPipelineStopped
	EventQueryDispatched = domain.EventQueryDispatched
	EventSearchCompleted = domain.EventSearchCompleted
	EventCatalogReloaded = domain.EventCatalogReloaded
	EventError           = domain.EventError
)

// Re-export domain event types
type PipelineStartedEvent = domain.PipelineStartedEvent
type PipelineStoppedEvent = domain.PipelineStoppedEvent
type QueryDispatchedEvent = domain.QueryDispatchedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type CatalogReloadedEvent = domain.CatalogReloadedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	handlerWG sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// New creates a new event bus
func New(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
		logger:    logger,
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	select {
	case <-b.quit:
		return
	default:
	}

	switch event.Type() {
	case EventQueryDispatched, EventSearchCompleted:
		// too frequent to log at info
		b.logger.Debug("eventbus publish", "event", event.Type())
	default:
		b.logger.Info("eventbus publish", "event", event.Type())
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("eventbus channel full, dropping event", "event", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function; calling it more than once is harmless.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and waits for running handlers
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
		b.handlerWG.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.handlerWG.Add(1)
		go func(h EventHandler) {
			defer b.handlerWG.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panic", "event", event.Type(), "panic", r, "stack", string(debug.Stack()))
				}
			}()
			h(event)
		}(s.handler)
	}
}
