package patrol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/patrol/internal/compiler"
	"github.com/aretw0/patrol/internal/logging"
	"github.com/aretw0/patrol/internal/runtime"
	"github.com/aretw0/patrol/pkg/domain"
)

// Engine is the high-level entry point for the patrol library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime    *runtime.Engine
	parser     *compiler.Parser
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	workers    int
	exhaustive bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers bounds how many obstruction candidates are probed concurrently.
// Zero means one worker per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithExhaustive probes every empty cell instead of only the baseline trail.
// Slower; the result is the same.
func WithExhaustive(exhaustive bool) Option {
	return func(e *Engine) {
		e.exhaustive = exhaustive
	}
}

// New initializes a new patrol Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{parser: compiler.NewParser()}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", eng.workers)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithWorkers(eng.workers),
		runtime.WithExhaustive(eng.exhaustive),
	)
	return eng, nil
}

// Parse converts a text grid into a scenario. Errors wrap domain.ErrMalformedInput.
func (e *Engine) Parse(data []byte) (*domain.Scenario, error) {
	return e.parser.Parse(data)
}

// Trace runs the baseline patrol: the visited trail until exit, or a loop/blocked verdict.
func (e *Engine) Trace(ctx context.Context, sc *domain.Scenario) (*domain.Trace, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return e.runtime.Trace(ctx, sc.Grid, sc.Agent)
}

// Search finds every cell where a single new obstacle traps the agent in a loop.
func (e *Engine) Search(ctx context.Context, sc *domain.Scenario) (*domain.SearchResult, error) {
	return e.runtime.Search(ctx, sc)
}

// Analyze parses input and runs the full pipeline, returning an unsaved report.
func (e *Engine) Analyze(ctx context.Context, input []byte) (*domain.Report, error) {
	sc, err := e.Parse(input)
	if err != nil {
		return nil, err
	}
	res, err := e.Search(ctx, sc)
	if err != nil {
		return nil, err
	}
	return domain.NewReport(compiler.Digest(input), sc, res), nil
}

// Workers returns the effective size of the search worker pool.
func (e *Engine) Workers() int {
	return e.runtime.Workers()
}
