package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/patrol/internal/runtime"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_ClearLineExitsAfterDistance(t *testing.T) {
	g, err := domain.NewGrid(5, 6, nil)
	require.NoError(t, err)

	engine := runtime.NewEngine()
	for y := 0; y < 6; y++ {
		tr, err := engine.Trace(context.Background(), g, domain.NewAgent(domain.Pos(2, y), domain.Up))
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeExit, tr.Outcome)
		assert.Equal(t, y, tr.Steps, "steps to the top edge from row %d", y)
		assert.Equal(t, y+1, tr.VisitedCount())
	}
}

func TestTrace_CornerExitsImmediately(t *testing.T) {
	g, err := domain.NewGrid(4, 4, nil)
	require.NoError(t, err)

	tr, err := runtime.NewEngine().Trace(context.Background(), g, domain.NewAgent(domain.Pos(0, 0), domain.Up))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeExit, tr.Outcome)
	assert.Equal(t, 0, tr.Steps)
	assert.Equal(t, 1, tr.VisitedCount())
	assert.Equal(t, domain.Up, tr.Visited[domain.Pos(0, 0)])
}

func TestTrace_Sample(t *testing.T) {
	sc := parse(t, sampleGrid)

	tr, err := runtime.NewEngine().Trace(context.Background(), sc.Grid, sc.Agent)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeExit, tr.Outcome)
	assert.Equal(t, 41, tr.VisitedCount())
	assert.Len(t, tr.Path, 41)
	assert.Equal(t, sc.Agent.Start, tr.Path[0])
	assert.Equal(t, domain.Pos(7, 9), tr.Final.Position)
	assert.Equal(t, domain.Down, tr.Final.Heading)

	// The first heading is kept for cells crossed more than once.
	assert.Equal(t, domain.Up, tr.Visited[domain.Pos(4, 4)])
}

func TestTrace_DetectsLoop(t *testing.T) {
	sc := parse(t, sampleGrid)
	looping := sc.Grid.WithObstacle(domain.Pos(3, 6))

	tr, err := runtime.NewEngine().Trace(context.Background(), looping, sc.Agent)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeLoop, tr.Outcome)
	assert.LessOrEqual(t, tr.Steps, 4*looping.Area())
	assert.False(t, sc.Grid.IsObstacle(domain.Pos(3, 6)), "baseline grid untouched")
}

func TestTrace_Blocked(t *testing.T) {
	sc := parse(t, ".#.\n#^#\n.#.\n")

	tr, err := runtime.NewEngine().Trace(context.Background(), sc.Grid, sc.Agent)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeBlocked, tr.Outcome)
	assert.Equal(t, 0, tr.Steps)
	assert.Equal(t, 4, tr.Turns)
	assert.Equal(t, 1, tr.VisitedCount())
}

func TestTrace_Idempotent(t *testing.T) {
	sc := parse(t, sampleGrid)
	engine := runtime.NewEngine()

	first, err := engine.Trace(context.Background(), sc.Grid, sc.Agent)
	require.NoError(t, err)
	second, err := engine.Trace(context.Background(), sc.Grid, sc.Agent)
	require.NoError(t, err)

	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Visited, second.Visited)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, sc.Agent.Start, sc.Agent.Position, "caller's agent is not advanced")
}

func TestTrace_AgentOutsideGrid(t *testing.T) {
	g, err := domain.NewGrid(2, 2, nil)
	require.NoError(t, err)

	_, err = runtime.NewEngine().Trace(context.Background(), g, domain.NewAgent(domain.Pos(2, 0), domain.Up))
	assert.ErrorIs(t, err, domain.ErrInvalidAgent)
}

func TestTrace_Canceled(t *testing.T) {
	sc := parse(t, sampleGrid)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewEngine().Trace(ctx, sc.Grid, sc.Agent)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrace_Hook(t *testing.T) {
	sc := parse(t, sampleGrid)

	var got *domain.TraceEvent
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnTraceComplete: func(ctx context.Context, e *domain.TraceEvent) {
			got = e
		},
	}))

	_, err := engine.Trace(context.Background(), sc.Grid, sc.Agent)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.EventTraceComplete, got.Type)
	assert.Equal(t, domain.OutcomeExit, got.Outcome)
	assert.Equal(t, 41, got.Visited)
}
