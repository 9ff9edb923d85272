package domain

import (
	"fmt"
	"strings"
)

// Outcome is the terminal verdict of a patrol run.
type Outcome int

const (
	// OutcomeExit means the agent walked off the grid.
	OutcomeExit Outcome = iota
	// OutcomeLoop means the agent re-entered a (position, heading) state and will never exit.
	OutcomeLoop
	// OutcomeBlocked means the agent was boxed in on all four sides.
	OutcomeBlocked
)

var outcomeNames = map[Outcome]string{
	OutcomeExit:    "exit",
	OutcomeLoop:    "loop",
	OutcomeBlocked: "blocked",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	n, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("invalid outcome %d", int(o))
	}
	return []byte(n), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for k, n := range outcomeNames {
		if n == s {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// VisitedStates maps each position reached during a run to the heading the agent held
// the first time it stood there.
type VisitedStates map[Position]Heading

// Positions returns the visited cells sorted row-major.
func (v VisitedStates) Positions() []Position {
	out := make([]Position, 0, len(v))
	for p := range v {
		out = append(out, p)
	}
	SortPositions(out)
	return out
}

// StateSet records every (position, heading) pair seen during one run, as a dense
// per-cell heading bitmask sized to the grid.
type StateSet struct {
	width int
	masks []uint8
}

// NewStateSet allocates an empty set for g.
func NewStateSet(g *Grid) *StateSet {
	return &StateSet{width: g.width, masks: make([]uint8, g.Area())}
}

// Add inserts the state and reports whether it was new. p must lie inside the grid.
func (s *StateSet) Add(p Position, h Heading) bool {
	i := p.Y*s.width + p.X
	if s.masks[i]&h.bit() != 0 {
		return false
	}
	s.masks[i] |= h.bit()
	return true
}

// Has reports whether the state was recorded.
func (s *StateSet) Has(p Position, h Heading) bool {
	return s.masks[p.Y*s.width+p.X]&h.bit() != 0
}

// Trace is the result of one patrol run.
type Trace struct {
	Outcome Outcome `json:"outcome"`
	// Visited holds the first heading per visited position, start cell included.
	Visited VisitedStates `json:"-"`
	// Path lists visited positions in order of first visit, starting at the start cell.
	Path []Position `json:"path"`
	// Steps counts cells moved; Turns counts clockwise rotations.
	Steps int `json:"steps"`
	Turns int `json:"turns"`
	// Final is the agent state when the run ended.
	Final Agent `json:"final"`
}

// VisitedCount is the number of distinct cells the agent stood on.
func (t *Trace) VisitedCount() int {
	return len(t.Visited)
}

// SearchResult aggregates an obstruction search.
type SearchResult struct {
	// Baseline is the patrol on the unmodified grid.
	Baseline *Trace `json:"baseline"`
	// Candidates is the number of cells probed.
	Candidates int `json:"candidates"`
	// Exhaustive is true when every empty cell was probed rather than the baseline trail.
	Exhaustive bool `json:"exhaustive"`
	// Loops lists loop-inducing cells, deduplicated and sorted row-major.
	Loops []Position `json:"loops"`
	// Blocked lists cells whose obstacle leaves the agent boxed in.
	Blocked []Position `json:"blocked,omitempty"`
}

// LoopCount is the number of loop-inducing cells.
func (r *SearchResult) LoopCount() int {
	return len(r.Loops)
}
