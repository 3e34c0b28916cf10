package ui

import (
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"cheesefinder/internal/scheduler"
)

// programScheduler is the UI context: tasks are posted to the Bubble Tea
// program as messages and run inside Update. Posting goes through a queue so
// it is safe from within Update itself.
type programScheduler struct {
	program atomic.Pointer[tea.Program]
	queue   *scheduler.Queue
	logger  *slog.Logger
}

func newProgramScheduler(logger *slog.Logger) *programScheduler {
	s := &programScheduler{logger: logger}
	s.queue = scheduler.NewQueue(s.deliver)
	return s
}

func (s *programScheduler) Schedule(task func()) {
	s.queue.Schedule(task)
}

func (s *programScheduler) deliver(task func()) {
	p := s.program.Load()
	if p == nil {
		s.logger.Warn("ui task dropped, no program attached")
		return
	}
	p.Send(uiTaskMsg(task))
}

// Close stops accepting tasks
func (s *programScheduler) Close() {
	s.queue.Close()
}
