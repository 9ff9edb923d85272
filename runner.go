package patrol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/patrol/pkg/domain"
)

// Runner drives one engine operation over provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// JSON switches the summary to a machine-readable document.
	JSON bool
	// Renderer, when set, draws the grid after the summary (ignored in JSON mode).
	Renderer GridRenderer
}

// GridRenderer turns a scenario and its results into a printable picture.
// This allows ANSI rendering without coupling the core package to a terminal library.
type GridRenderer func(sc *domain.Scenario, tr *domain.Trace, loops []domain.Position) (string, error)

// NewRunner creates a Runner over the given IO.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Trace reads a grid from Input and writes the baseline patrol summary.
func (r *Runner) Trace(ctx context.Context, eng *Engine) (*domain.Trace, error) {
	sc, err := r.read(eng)
	if err != nil {
		return nil, err
	}
	tr, err := eng.Trace(ctx, sc)
	if err != nil {
		return nil, err
	}

	if r.JSON {
		return tr, r.encode(struct {
			*domain.Trace
			Visited int `json:"visited"`
		}{tr, tr.VisitedCount()})
	}

	fmt.Fprintf(r.Output, "outcome: %s\n", tr.Outcome)
	fmt.Fprintf(r.Output, "visited: %d\n", tr.VisitedCount())
	fmt.Fprintf(r.Output, "steps:   %d\n", tr.Steps)
	fmt.Fprintf(r.Output, "final:   %s facing %s\n", tr.Final.Position, tr.Final.Heading)
	return tr, r.render(sc, tr, nil)
}

// Search reads a grid from Input and writes every loop-inducing obstruction.
func (r *Runner) Search(ctx context.Context, eng *Engine) (*domain.SearchResult, error) {
	sc, err := r.read(eng)
	if err != nil {
		return nil, err
	}
	res, err := eng.Search(ctx, sc)
	if err != nil {
		return nil, err
	}

	if r.JSON {
		return res, r.encode(res)
	}

	fmt.Fprintf(r.Output, "baseline:   %s (%d visited)\n", res.Baseline.Outcome, res.Baseline.VisitedCount())
	fmt.Fprintf(r.Output, "candidates: %d\n", res.Candidates)
	fmt.Fprintf(r.Output, "loops:      %d\n", res.LoopCount())
	for _, p := range res.Loops {
		fmt.Fprintf(r.Output, "  %s\n", p)
	}
	if len(res.Blocked) > 0 {
		fmt.Fprintf(r.Output, "blocked:    %d\n", len(res.Blocked))
		for _, p := range res.Blocked {
			fmt.Fprintf(r.Output, "  %s\n", p)
		}
	}
	return res, r.render(sc, res.Baseline, res.Loops)
}

func (r *Runner) read(eng *Engine) (*domain.Scenario, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	data, err := io.ReadAll(r.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return eng.Parse(data)
}

func (r *Runner) encode(v any) error {
	enc := json.NewEncoder(r.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Runner) render(sc *domain.Scenario, tr *domain.Trace, loops []domain.Position) error {
	if r.Renderer == nil {
		return nil
	}
	out, err := r.Renderer(sc, tr, loops)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	_, err = fmt.Fprint(r.Output, out)
	return err
}
