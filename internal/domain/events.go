package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPipelineStarted EventType = "PipelineStarted"
	EventPipelineStopped EventType = "PipelineStopped"
	EventQueryDispatched EventType = "QueryDispatched"
	EventSearchCompleted EventType = "SearchCompleted"
	EventCatalogReloaded EventType = "CatalogReloaded"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PipelineStartedEvent is emitted when the screen becomes visible and listeners are registered
type PipelineStartedEvent struct{}

func (e PipelineStartedEvent) Type() EventType { return EventPipelineStarted }

// PipelineStoppedEvent is emitted after listeners have been released
type PipelineStoppedEvent struct{}

func (e PipelineStoppedEvent) Type() EventType { return EventPipelineStopped }

// QueryDispatchedEvent is emitted right before a query is handed to the search engine
type QueryDispatchedEvent struct {
	Query string
}

func (e QueryDispatchedEvent) Type() EventType { return EventQueryDispatched }

// SearchCompletedEvent is emitted when the search engine returns
type SearchCompletedEvent struct {
	Query   string
	Matches int
	Took    time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// CatalogReloadedEvent is emitted when the catalog file changed and the engine was rebuilt
type CatalogReloadedEvent struct {
	Path  string
	Items int
}

func (e CatalogReloadedEvent) Type() EventType { return EventCatalogReloaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
