package ui

import (
	"cheesefinder/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// uiTaskMsg carries a closure posted to the UI context; Update runs it
type uiTaskMsg func()

// pagerDoneMsg is sent when the results pager exits
type pagerDoneMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct {
	id int
}
