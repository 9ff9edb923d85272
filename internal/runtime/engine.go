package runtime

import (
	"context"
	"log/slog"
	goruntime "runtime"
	"time"

	"github.com/aretw0/patrol/internal/logging"
	"github.com/aretw0/patrol/pkg/domain"
)

// Engine runs patrol simulations and obstruction searches.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	workers    int
	exhaustive bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithWorkers bounds the number of concurrent candidate probes. Values < 1 mean NumCPU.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithExhaustive makes the search probe every empty cell instead of the baseline trail.
func WithExhaustive(exhaustive bool) EngineOption {
	return func(e *Engine) {
		e.exhaustive = exhaustive
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = goruntime.NumCPU()
	}
	return e
}

// Workers returns the configured pool size.
func (e *Engine) Workers() int {
	return e.workers
}

func (e *Engine) emitTraceComplete(ctx context.Context, tr *domain.Trace, d time.Duration) {
	if e.hooks.OnTraceComplete == nil {
		return
	}
	e.hooks.OnTraceComplete(ctx, &domain.TraceEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTraceComplete},
		Outcome:   tr.Outcome,
		Steps:     tr.Steps,
		Visited:   tr.VisitedCount(),
		Duration:  d,
	})
}

func (e *Engine) emitCandidate(ctx context.Context, p domain.Position, o domain.Outcome) {
	if e.hooks.OnCandidate == nil {
		return
	}
	e.hooks.OnCandidate(ctx, &domain.CandidateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCandidate},
		Position:  p,
		Outcome:   o,
	})
}

func (e *Engine) emitSearchComplete(ctx context.Context, res *domain.SearchResult, d time.Duration) {
	if e.hooks.OnSearchComplete == nil {
		return
	}
	e.hooks.OnSearchComplete(ctx, &domain.SearchEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventSearchComplete},
		Candidates: res.Candidates,
		Loops:      res.LoopCount(),
		Blocked:    len(res.Blocked),
		Exhaustive: res.Exhaustive,
		Duration:   d,
	})
}
