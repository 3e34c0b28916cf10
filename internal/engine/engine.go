// Package engine holds the search engines the screen delegates to. Every
// engine blocks until it has an answer and reports no errors to the caller.
package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"cheesefinder/internal/domain"
)

// Backend names accepted by Build
const (
	BackendSubstring = "substring"
	BackendBleve     = "bleve"
)

// ErrUnknownBackend is returned by Build for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown search backend")

// Engine answers one query at a time
type Engine interface {
	Search(query string) domain.SearchResult
}

// Options selects and tunes the engine stack
type Options struct {
	Backend   string
	CacheSize int
	Latency   time.Duration
}

// Build creates the configured engine over cat: the backend, then the
// artificial latency, then the cache in front of both.
func Build(cat Catalog, opts Options, logger *slog.Logger) (Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var e Engine
	switch strings.ToLower(opts.Backend) {
	case "", BackendSubstring:
		e = NewSubstring(cat)
	case BackendBleve:
		b, err := NewBleve(cat, logger)
		if err != nil {
			return nil, err
		}
		e = b
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", opts.Backend)
	}

	if opts.Latency > 0 {
		e = NewSlow(e, opts.Latency)
	}
	if opts.CacheSize > 0 {
		c, err := NewCached(e, opts.CacheSize)
		if err != nil {
			return nil, err
		}
		e = c
	}
	logger.Info("search engine ready",
		"backend", opts.Backend,
		"catalog", cat.Source,
		"entries", cat.Len(),
		"cache_size", opts.CacheSize,
		"latency", opts.Latency)
	return e, nil
}
