package domain

import "fmt"

// Scenario is a parsed input: the read-only grid plus the agent's starting state.
type Scenario struct {
	Grid  *Grid
	Agent Agent
}

// Validate checks that the agent stands on a free cell inside the grid.
func (s *Scenario) Validate() error {
	if s.Grid == nil {
		return fmt.Errorf("%w: missing grid", ErrInvalidGrid)
	}
	if !s.Agent.Heading.Valid() {
		return fmt.Errorf("%w: invalid heading %s", ErrInvalidAgent, s.Agent.Heading)
	}
	if !s.Grid.Contains(s.Agent.Start) {
		return fmt.Errorf("%w: start %s outside %dx%d grid", ErrInvalidAgent, s.Agent.Start, s.Grid.Width(), s.Grid.Height())
	}
	if s.Grid.IsObstacle(s.Agent.Start) {
		return fmt.Errorf("%w: start %s is an obstacle", ErrInvalidAgent, s.Agent.Start)
	}
	return nil
}
