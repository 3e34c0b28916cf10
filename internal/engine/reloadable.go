package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"cheesefinder/internal/domain"
	"cheesefinder/internal/eventbus"
	"cheesefinder/internal/stream"
)

// reloadDebounce coalesces the burst of events editors produce on save
const reloadDebounce = 200 * time.Millisecond

type loaded struct {
	engine  Engine
	catalog Catalog
}

// Reloadable serves searches from an engine that can be rebuilt while
// searches are running. Searches in flight finish on the engine they
// started with.
type Reloadable struct {
	current atomic.Pointer[loaded]
	path    string
	opts    Options
	bus     eventbus.EventBus
	logger  *slog.Logger
}

// NewReloadable loads the catalog at path (built-in when empty) and builds
// the first engine
func NewReloadable(path string, opts Options, bus eventbus.EventBus, logger *slog.Logger) (*Reloadable, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reloadable{path: path, opts: opts, bus: bus, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reloadable) Search(query string) domain.SearchResult {
	return r.current.Load().engine.Search(query)
}

// Catalog returns the catalog currently being searched
func (r *Reloadable) Catalog() Catalog {
	return r.current.Load().catalog
}

// Reload rereads the catalog and swaps in a new engine. On failure the
// previous engine stays in place.
func (r *Reloadable) Reload() error {
	cat, err := LoadCatalog(r.path)
	if err != nil {
		return err
	}
	e, err := Build(cat, r.opts, r.logger)
	if err != nil {
		return err
	}

	old := r.current.Swap(&loaded{engine: e, catalog: cat})
	if old != nil {
		if c, ok := old.engine.(io.Closer); ok {
			_ = c.Close()
		}
		r.logger.Info("catalog reloaded", "path", cat.Source, "entries", cat.Len())
		if r.bus != nil {
			r.bus.Publish(domain.CatalogReloadedEvent{Path: cat.Source, Items: cat.Len()})
		}
	}
	return nil
}

// Watch reloads the catalog whenever its file is written or replaced, until
// ctx is done. It returns immediately for the built-in catalog.
func (r *Reloadable) Watch(ctx context.Context) error {
	if r.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating catalog watcher")
	}
	defer watcher.Close()

	target := filepath.Clean(r.path)
	// watch the directory so replace-on-save editors are still seen
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(target))
	}
	r.logger.Info("watching catalog", "path", target)

	changes := stream.Create(func(emit func(string)) func() {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Clean(ev.Name) != target {
						continue
					}
					if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
						emit(ev.Name)
					}
				case werr, ok := <-watcher.Errors:
					if !ok {
						return
					}
					r.logger.Warn("catalog watcher error", "error", werr)
				}
			}
		}()
		return func() { close(done) }
	})

	sub := stream.Debounce(changes, reloadDebounce, stream.RealClock).Subscribe(func(string) {
		if err := r.Reload(); err != nil {
			r.logger.Error("catalog reload failed", "path", target, "error", err)
			if r.bus != nil {
				r.bus.Publish(domain.ErrorEvent{Message: "catalog reload failed", Err: err})
			}
		}
	})
	defer sub.Dispose()

	<-ctx.Done()
	return nil
}
