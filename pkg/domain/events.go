package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceComplete  EventType = "trace_complete"
	EventCandidate      EventType = "candidate"
	EventSearchComplete EventType = "search_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TraceEvent is emitted when a patrol run finishes.
type TraceEvent struct {
	EventBase
	Outcome  Outcome       `json:"outcome"`
	Steps    int           `json:"steps"`
	Visited  int           `json:"visited"`
	Duration time.Duration `json:"duration"`
}

// CandidateEvent is emitted once per probed obstruction cell.
type CandidateEvent struct {
	EventBase
	Position Position `json:"position"`
	Outcome  Outcome  `json:"outcome"`
}

// SearchEvent is emitted when an obstruction search finishes.
type SearchEvent struct {
	EventBase
	Candidates int           `json:"candidates"`
	Loops      int           `json:"loops"`
	Blocked    int           `json:"blocked"`
	Exhaustive bool          `json:"exhaustive"`
	Duration   time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks may be invoked concurrently from search workers.
type LifecycleHooks struct {
	OnTraceComplete  func(context.Context, *TraceEvent)
	OnCandidate      func(context.Context, *CandidateEvent)
	OnSearchComplete func(context.Context, *SearchEvent)
}
