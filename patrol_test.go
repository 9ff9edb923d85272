package patrol_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aretw0/patrol"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func TestNew_RejectsNegativeWorkers(t *testing.T) {
	_, err := patrol.New(patrol.WithWorkers(-1))
	assert.Error(t, err)
}

func TestEngine_Analyze(t *testing.T) {
	eng, err := patrol.New(patrol.WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, 2, eng.Workers())

	report, err := eng.Analyze(context.Background(), []byte(sample))
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Len(t, report.Digest, 64)
	assert.Equal(t, domain.OutcomeExit, report.Baseline)
	assert.Equal(t, 41, report.Visited)
	assert.Equal(t, 6, report.LoopCount())
	assert.Equal(t, 10, report.Width)
	assert.Equal(t, 8, report.Obstacles)
	assert.Equal(t, domain.Pos(4, 6), report.Start)
}

func TestEngine_AnalyzeMalformed(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	_, err = eng.Analyze(context.Background(), []byte("..\n.x\n"))
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestEngine_TraceValidatesScenario(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	sc, err := eng.Parse([]byte("...\n.^.\n...\n"))
	require.NoError(t, err)
	sc.Agent.Position = domain.Pos(9, 9)
	sc.Agent.Start = domain.Pos(9, 9)

	_, err = eng.Trace(context.Background(), sc)
	assert.ErrorIs(t, err, domain.ErrInvalidAgent)
}

func TestEngine_ExhaustiveOption(t *testing.T) {
	eng, err := patrol.New(patrol.WithExhaustive(true))
	require.NoError(t, err)

	sc, err := eng.Parse([]byte(sample))
	require.NoError(t, err)

	res, err := eng.Search(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, res.Exhaustive)
	assert.Equal(t, 91, res.Candidates)
	assert.Equal(t, 6, res.LoopCount())
}

func TestEngine_Hooks(t *testing.T) {
	var traces, candidates, searches atomic.Int32
	hooks := domain.LifecycleHooks{
		OnTraceComplete:  func(context.Context, *domain.TraceEvent) { traces.Add(1) },
		OnCandidate:      func(context.Context, *domain.CandidateEvent) { candidates.Add(1) },
		OnSearchComplete: func(context.Context, *domain.SearchEvent) { searches.Add(1) },
	}
	eng, err := patrol.New(patrol.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, err = eng.Analyze(context.Background(), []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, int32(1), traces.Load(), "only the baseline reports a trace")
	assert.Equal(t, int32(40), candidates.Load())
	assert.Equal(t, int32(1), searches.Load())
}

func TestRunner_TraceText(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	var out bytes.Buffer
	r := patrol.NewRunner(strings.NewReader(sample), &out)

	tr, err := r.Trace(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, 41, tr.VisitedCount())
	assert.Contains(t, out.String(), "outcome: exit")
	assert.Contains(t, out.String(), "visited: 41")
}

func TestRunner_SearchJSON(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	var out bytes.Buffer
	r := patrol.NewRunner(strings.NewReader(sample), &out)
	r.JSON = true

	_, err = r.Search(context.Background(), eng)
	require.NoError(t, err)

	var doc struct {
		Candidates int               `json:"candidates"`
		Loops      []domain.Position `json:"loops"`
		Baseline   struct {
			Outcome string `json:"outcome"`
		} `json:"baseline"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 40, doc.Candidates)
	assert.Len(t, doc.Loops, 6)
	assert.Equal(t, "exit", doc.Baseline.Outcome)
}

func TestRunner_Renderer(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	var out bytes.Buffer
	r := patrol.NewRunner(strings.NewReader("^\n"), &out)
	r.Renderer = func(sc *domain.Scenario, tr *domain.Trace, loops []domain.Position) (string, error) {
		return "<grid>\n", nil
	}

	_, err = r.Trace(context.Background(), eng)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.String(), "<grid>\n"))
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, err := patrol.New()
	require.NoError(t, err)

	_, err = (&patrol.Runner{}).Trace(context.Background(), eng)
	assert.Error(t, err)
}
