package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/patrol/pkg/domain"
)

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

// Trace drives a private copy of agent across g until it exits, loops or gets blocked.
//
// The returned visited record maps every cell the agent stood on to the heading it held
// there first. A run is declared a loop as soon as a (position, heading) state repeats;
// since the machine is deterministic, the rest of the trajectory would repeat too.
func (e *Engine) Trace(ctx context.Context, g *domain.Grid, agent domain.Agent) (*domain.Trace, error) {
	begin := time.Now()
	tr, err := trace(ctx, g, agent)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "patrol traced",
		"outcome", tr.Outcome,
		"steps", tr.Steps,
		"turns", tr.Turns,
		"visited", tr.VisitedCount(),
	)
	e.emitTraceComplete(ctx, tr, time.Since(begin))
	return tr, nil
}

func trace(ctx context.Context, g *domain.Grid, start domain.Agent) (*domain.Trace, error) {
	if !g.Contains(start.Position) {
		return nil, fmt.Errorf("%w: position %s outside %dx%d grid", domain.ErrInvalidAgent, start.Position, g.Width(), g.Height())
	}

	agent := start.Clone()
	seen := domain.NewStateSet(g)
	seen.Add(agent.Position, agent.Heading)

	tr := &domain.Trace{
		Visited: domain.VisitedStates{agent.Position: agent.Heading},
		Path:    []domain.Position{agent.Position},
	}
	// 4 headings per cell bound the number of distinct states.
	limit := 4 * g.Area()

	for {
		if tr.Steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		res := agent.Advance(g)
		tr.Turns += res.Turns

		switch res.Kind {
		case domain.StepExit:
			return finish(tr, agent, domain.OutcomeExit), nil
		case domain.StepBlocked:
			return finish(tr, agent, domain.OutcomeBlocked), nil
		}

		tr.Steps++
		if _, ok := tr.Visited[res.Position]; !ok {
			tr.Visited[res.Position] = agent.Heading
			tr.Path = append(tr.Path, res.Position)
		}
		if !seen.Add(res.Position, agent.Heading) || tr.Steps > limit {
			return finish(tr, agent, domain.OutcomeLoop), nil
		}
	}
}

func finish(tr *domain.Trace, agent *domain.Agent, outcome domain.Outcome) *domain.Trace {
	tr.Outcome = outcome
	tr.Final = *agent
	return tr
}
