package stream

import "time"

// Timer is the part of *time.Timer the debounce stage needs
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc
var RealClock Clock = realClock{}
