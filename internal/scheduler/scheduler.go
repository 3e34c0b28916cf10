// Package scheduler provides the execution contexts the search pipeline hops
// between: a serial context that owns widget state and a bounded background
// pool for slow work.
package scheduler

import (
	"log/slog"
	"runtime/debug"
)

// Scheduler runs tasks on some execution context
type Scheduler interface {
	Schedule(task func())
}

// Func adapts a plain function to the Scheduler interface
type Func func(task func())

// Schedule calls f(task)
func (f Func) Schedule(task func()) {
	f(task)
}

// Immediate runs every task inline on the caller's goroutine
var Immediate Scheduler = Func(func(task func()) { task() })

// runSafely runs task and logs a panic instead of taking the process down
func runSafely(logger *slog.Logger, name string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panic", "scheduler", name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}
