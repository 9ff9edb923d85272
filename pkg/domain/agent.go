package domain

// StepKind classifies the result of a single transition of the agent.
type StepKind int

const (
	// StepMoved means the agent advanced one cell.
	StepMoved StepKind = iota
	// StepExit means the cell ahead is outside the grid; the agent leaves the area.
	StepExit
	// StepBlocked means every heading at the current position faces an obstacle.
	StepBlocked
)

func (k StepKind) String() string {
	switch k {
	case StepMoved:
		return "moved"
	case StepExit:
		return "exit"
	case StepBlocked:
		return "blocked"
	}
	return "unknown"
}

// StepResult is the outcome of Agent.Advance.
type StepResult struct {
	Kind StepKind
	// Position is where the agent stands after the step.
	Position Position
	// Turns is the number of clockwise rotations performed before moving (0-3).
	Turns int
}

// Agent is the patrolling entity. It is the only mutable value in a simulation, and
// every run works on its own copy (see Clone).
type Agent struct {
	Position Position `json:"position"`
	Heading  Heading  `json:"heading"`
	// Start is where the agent began. No hypothetical obstacle may be placed here.
	Start Position `json:"start"`
}

// NewAgent creates an agent standing on start, facing heading.
func NewAgent(start Position, heading Heading) Agent {
	return Agent{Position: start, Heading: heading, Start: start}
}

// Clone returns an independent copy carrying the current position and heading.
func (a Agent) Clone() *Agent {
	c := a
	return &c
}

// Advance performs one transition on g.
//
// The agent looks at the cell ahead. If it is outside the grid the step is an exit and
// the agent stays put. If it is an obstacle the agent turns clockwise and looks again,
// at most once per heading; when all four headings are obstructed the step is blocked.
// Otherwise the agent moves into the cell keeping its (possibly rotated) heading.
func (a *Agent) Advance(g *Grid) StepResult {
	for turns := 0; turns < headingCount; turns++ {
		ahead := a.Position.Step(a.Heading)
		if !g.Contains(ahead) {
			return StepResult{Kind: StepExit, Position: a.Position, Turns: turns}
		}
		if !g.IsObstacle(ahead) {
			a.Position = ahead
			return StepResult{Kind: StepMoved, Position: ahead, Turns: turns}
		}
		a.Heading = a.Heading.TurnRight()
	}
	return StepResult{Kind: StepBlocked, Position: a.Position, Turns: headingCount}
}
