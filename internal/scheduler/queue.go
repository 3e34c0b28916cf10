package scheduler

import (
	"log/slog"
	"sync"
)

// Queue is a serial FIFO context. A single pump goroutine hands tasks to
// deliver one at a time, so Schedule never blocks the caller.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	closed  bool
	done    chan struct{}
	deliver func(task func())
}

// NewQueue starts a queue whose tasks are passed to deliver in order
func NewQueue(deliver func(task func())) *Queue {
	q := &Queue{
		done:    make(chan struct{}),
		deliver: deliver,
	}
	q.cond = sync.NewCond(&q.mu)
	go q.pump()
	return q
}

// NewLoop starts a queue that runs its tasks itself
func NewLoop(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return NewQueue(func(task func()) {
		runSafely(logger, "loop", task)
	})
}

// Schedule appends task to the queue
func (q *Queue) Schedule(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
}

// Close stops accepting tasks, delivers what is queued and waits for the pump
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	<-q.done
}

func (q *Queue) pump() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.deliver(task)
	}
}
