package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/patrol/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Search finds every cell where one extra obstacle traps the agent in a loop.
//
// When the baseline patrol exits, only cells on its trail are probed: an obstacle
// the agent never walks into cannot alter the trajectory. If the baseline itself
// loops or is blocked that argument no longer bounds the answer (every untouched
// cell would keep the verdict), so the search falls back to probing every empty
// cell. The start cell and existing obstacles are never candidates.
func (e *Engine) Search(ctx context.Context, sc *domain.Scenario) (*domain.SearchResult, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	begin := time.Now()

	baseline, err := e.Trace(ctx, sc.Grid, sc.Agent)
	if err != nil {
		return nil, fmt.Errorf("baseline trace failed: %w", err)
	}

	exhaustive := e.exhaustive || baseline.Outcome != domain.OutcomeExit
	var candidates []domain.Position
	if exhaustive {
		candidates = CandidatesExhaustive(sc)
	} else {
		candidates = CandidatesFromTrail(sc, baseline)
	}

	outcomes, err := e.probe(ctx, sc, candidates)
	if err != nil {
		return nil, err
	}

	res := &domain.SearchResult{
		Baseline:   baseline,
		Candidates: len(candidates),
		Exhaustive: exhaustive,
		Loops:      []domain.Position{},
	}
	for i, o := range outcomes {
		switch o {
		case domain.OutcomeLoop:
			res.Loops = append(res.Loops, candidates[i])
		case domain.OutcomeBlocked:
			res.Blocked = append(res.Blocked, candidates[i])
		}
	}
	domain.SortPositions(res.Loops)
	domain.SortPositions(res.Blocked)

	elapsed := time.Since(begin)
	e.logger.InfoContext(ctx, "obstruction search complete",
		"candidates", res.Candidates,
		"loops", res.LoopCount(),
		"blocked", len(res.Blocked),
		"exhaustive", exhaustive,
		"workers", e.workers,
		"duration", elapsed,
	)
	e.emitSearchComplete(ctx, res, elapsed)
	return res, nil
}

// probe traces one hypothetical grid per candidate on a bounded worker pool.
// Each task writes only its own slot, so the slice needs no lock.
func (e *Engine) probe(ctx context.Context, sc *domain.Scenario, candidates []domain.Position) ([]domain.Outcome, error) {
	outcomes := make([]domain.Outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, c := range candidates {
		g.Go(func() error {
			tr, err := trace(gctx, sc.Grid.WithObstacle(c), sc.Agent)
			if err != nil {
				return fmt.Errorf("probe %s: %w", c, err)
			}
			outcomes[i] = tr.Outcome
			e.emitCandidate(gctx, c, tr.Outcome)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// CandidatesFromTrail lists the distinct cells of the baseline trail, in walking order,
// excluding the start cell and obstacles.
func CandidatesFromTrail(sc *domain.Scenario, baseline *domain.Trace) []domain.Position {
	out := make([]domain.Position, 0, len(baseline.Path))
	seen := make(map[domain.Position]struct{}, len(baseline.Path))
	for _, p := range baseline.Path {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if p == sc.Agent.Start || sc.Grid.IsObstacle(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CandidatesExhaustive lists every empty cell except the start, row-major.
func CandidatesExhaustive(sc *domain.Scenario) []domain.Position {
	g := sc.Grid
	out := make([]domain.Position, 0, g.Area()-g.ObstacleCount())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := domain.Pos(x, y)
			if p == sc.Agent.Start || g.IsObstacle(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
