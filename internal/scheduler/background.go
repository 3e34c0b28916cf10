package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Background runs tasks on goroutines, at most maxConcurrent at a time.
// Tasks start in no particular order once a slot frees up.
type Background struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewBackground creates a pool; maxConcurrent below 1 is treated as 1
func NewBackground(maxConcurrent int, logger *slog.Logger) *Background {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Schedule queues task for execution; tasks scheduled after Close are dropped
func (b *Background) Schedule(task func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("background scheduler closed, dropping task")
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()
	go func() {
		defer b.wg.Done()
		if err := b.sem.Acquire(b.ctx, 1); err != nil {
			b.logger.Debug("background task dropped", "error", err)
			return
		}
		defer b.sem.Release(1)
		runSafely(b.logger, "background", task)
	}()
}

// Close drops tasks still waiting for a slot and waits for running ones
func (b *Background) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()
}
