// Package pipeline wires the search screen's two input widgets to the search
// engine.
//
// Text changes are filtered by length and debounced; button presses go
// through as they are. Each resulting query shows progress on the UI
// context, runs the search on the background context, then hides progress
// and shows the result back on the UI context.
package pipeline

import (
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"cheesefinder/internal/domain"
	"cheesefinder/internal/eventbus"
	"cheesefinder/internal/scheduler"
	"cheesefinder/internal/stream"
)

const (
	DefaultDebounce       = 1000 * time.Millisecond
	DefaultMinQueryLength = 2
)

// TextWatcher is notified with the full field content after every change
type TextWatcher interface {
	OnTextChanged(text string)
}

// TextField is the query input widget
type TextField interface {
	Text() string
	AddTextChangedListener(w TextWatcher)
	RemoveTextChangedListener(w TextWatcher)
}

// Button is the search button. Passing nil clears the listener.
type Button interface {
	SetOnClickListener(fn func())
}

// View renders progress and results. Its methods are only called on the UI
// scheduler.
type View interface {
	ShowProgress()
	HideProgress()
	ShowResult(result domain.SearchResult)
}

// Searcher looks up a query. It may block; it is only called on the
// background scheduler.
type Searcher interface {
	Search(query string) domain.SearchResult
}

// Options tunes the controller. Zero values fall back to defaults.
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	Clock          stream.Clock
	UI             scheduler.Scheduler
	Background     scheduler.Scheduler
	Bus            eventbus.EventBus
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.Clock == nil {
		o.Clock = stream.RealClock
	}
	if o.UI == nil {
		o.UI = scheduler.Immediate
	}
	if o.Background == nil {
		o.Background = scheduler.Immediate
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Controller owns the pipeline subscription for one screen. It is either
// stopped (no listeners registered) or active (listeners registered and
// results flowing).
type Controller struct {
	field    TextField
	button   Button
	view     View
	searcher Searcher
	opts     Options

	mu  sync.Mutex
	sub stream.Subscription
}

// New creates a stopped controller
func New(field TextField, button Button, view View, searcher Searcher, opts Options) *Controller {
	return &Controller{
		field:    field,
		button:   button,
		view:     view,
		searcher: searcher,
		opts:     opts.withDefaults(),
	}
}

// Start registers the widget listeners and begins delivering results.
// Starting an active controller does nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil && !c.sub.IsDisposed() {
		c.opts.Logger.Warn("search pipeline already active")
		return
	}

	queries := stream.Merge(c.textChanges(), c.buttonClicks())

	shown := stream.Do(stream.ObserveOn(queries, c.opts.UI), func(string) {
		c.view.ShowProgress()
	})
	results := stream.Map(stream.ObserveOn(shown, c.opts.Background), c.search)

	c.sub = stream.ObserveOn(results, c.opts.UI).Subscribe(func(result domain.SearchResult) {
		c.view.HideProgress()
		c.view.ShowResult(result)
	})

	c.opts.Logger.Info("search pipeline started",
		"debounce", c.opts.Debounce,
		"min_query_length", c.opts.MinQueryLength)
	c.publish(domain.PipelineStartedEvent{})
}

// Stop releases the subscription, which unregisters the text watcher and
// clears the button listener. Stopping a stopped controller does nothing.
// A search that is already running is not interrupted, but its result is
// not delivered.
func (c *Controller) Stop() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub == nil || sub.IsDisposed() {
		return
	}
	sub.Dispose()

	c.opts.Logger.Info("search pipeline stopped")
	c.publish(domain.PipelineStoppedEvent{})
}

// Active reports whether listeners are currently registered
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub != nil && !c.sub.IsDisposed()
}

func (c *Controller) textChanges() stream.Source[string] {
	changes := stream.Create(func(emit func(string)) func() {
		w := &textWatcher{onChange: emit}
		c.field.AddTextChangedListener(w)
		return func() {
			c.field.RemoveTextChangedListener(w)
		}
	})

	long := stream.Filter(changes, func(q string) bool {
		return utf8.RuneCountInString(q) >= c.opts.MinQueryLength
	})
	return stream.Debounce(long, c.opts.Debounce, c.opts.Clock)
}

func (c *Controller) buttonClicks() stream.Source[string] {
	return stream.Create(func(emit func(string)) func() {
		c.button.SetOnClickListener(func() {
			emit(c.field.Text())
		})
		return func() {
			c.button.SetOnClickListener(nil)
		}
	})
}

func (c *Controller) search(query string) domain.SearchResult {
	c.publish(domain.QueryDispatchedEvent{Query: query})

	start := time.Now()
	result := c.searcher.Search(query)
	if result.Query == "" {
		result.Query = query
	}
	if result.Took == 0 {
		result.Took = time.Since(start)
	}

	c.opts.Logger.Debug("search finished", "query", query, "matches", result.Len(), "took", result.Took)
	c.publish(domain.SearchCompletedEvent{Query: query, Matches: result.Len(), Took: result.Took})
	return result
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(e)
	}
}

// textWatcher is a pointer type so the field can find it again on removal
type textWatcher struct {
	onChange func(string)
}

func (w *textWatcher) OnTextChanged(text string) {
	w.onChange(text)
}
