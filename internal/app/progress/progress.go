// Package progress reports coarse completion events for long-running
// analysis calls.
package progress

import "sync"

// Event is a single progress update.
type Event struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// Reporter delivers events to a sink while enforcing that the reported
// percentage never decreases. A nil *Reporter is valid and drops every event,
// so callers never need to branch on whether anyone is listening.
type Reporter struct {
	mu   sync.Mutex
	last int
	sink func(Event)
}

// NewReporter creates a reporter delivering events to sink. A nil sink yields
// a reporter that swallows events.
func NewReporter(sink func(Event)) *Reporter {
	return &Reporter{sink: sink}
}

// Report delivers an event. Percentages below the highest one already
// reported are raised to it, so consumers always observe a non-decreasing
// sequence.
func (r *Reporter) Report(percent int, message string) {
	if r == nil || r.sink == nil {
		return
	}

	r.mu.Lock()
	if percent < r.last {
		percent = r.last
	}
	r.last = percent
	r.mu.Unlock()

	r.sink(Event{Percent: percent, Message: message})
}
