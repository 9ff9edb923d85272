package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is the persisted summary of a full analysis (baseline trace plus obstruction search).
type Report struct {
	ID string `json:"id"`
	// Digest identifies the normalized grid text the report was computed from.
	Digest    string   `json:"digest"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Obstacles int      `json:"obstacles"`
	Start     Position `json:"start"`
	Heading   Heading  `json:"heading"`
	Baseline  Outcome  `json:"baseline"`
	Visited   int      `json:"visited"`
	Steps     int      `json:"steps"`
	// Candidates is the number of cells probed by the obstruction search.
	Candidates int        `json:"candidates"`
	Exhaustive bool       `json:"exhaustive"`
	Loops      []Position `json:"loops"`
	Blocked    []Position `json:"blocked,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewReport summarizes a scenario and its search result under a fresh ID.
func NewReport(digest string, sc *Scenario, res *SearchResult) *Report {
	r := &Report{
		ID:         uuid.NewString(),
		Digest:     digest,
		Width:      sc.Grid.Width(),
		Height:     sc.Grid.Height(),
		Obstacles:  sc.Grid.ObstacleCount(),
		Start:      sc.Agent.Start,
		Heading:    sc.Agent.Heading,
		Candidates: res.Candidates,
		Exhaustive: res.Exhaustive,
		Loops:      append(make([]Position, 0, len(res.Loops)), res.Loops...),
		Blocked:    append([]Position(nil), res.Blocked...),
		CreatedAt:  time.Now().UTC(),
	}
	if res.Baseline != nil {
		r.Baseline = res.Baseline.Outcome
		r.Visited = res.Baseline.VisitedCount()
		r.Steps = res.Baseline.Steps
	}
	return r
}

// LoopCount is the number of loop-inducing obstruction cells.
func (r *Report) LoopCount() int {
	return len(r.Loops)
}

// Clone returns a deep copy so stores can hand out values callers may mutate.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	c.Loops = append(make([]Position, 0, len(r.Loops)), r.Loops...)
	c.Blocked = append([]Position(nil), r.Blocked...)
	return &c
}
