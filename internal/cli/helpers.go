package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/patrol/pkg/domain"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalContext is a signal.NotifyContext that also remembers which signal fired.
type SignalContext struct {
	context.Context
	Cancel func()

	caught    atomic.Value
	cancelled atomic.Bool
	watched   chan struct{}
}

// NewSignalContext returns a context cancelled on SIGINT or SIGTERM, or by Cancel.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, stop := signal.NotifyContext(parent, shutdownSignals...)
	sc := &SignalContext{
		Context: ctx,
		watched: make(chan struct{}),
	}
	sc.Cancel = func() {
		sc.cancelled.Store(true)
		stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		defer close(sc.watched)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			sc.caught.Store(sig)
			stop()
		case <-ctx.Done():
			// NotifyContext heard the signal first; ours is delivered in the same pass.
			if parent.Err() == nil && !sc.cancelled.Load() {
				sc.caught.Store(<-sigCh)
				return
			}
			select {
			case sig := <-sigCh:
				sc.caught.Store(sig)
			default:
			}
		}
	}()

	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	if sc.Err() == nil {
		return nil
	}
	<-sc.watched
	sig, _ := sc.caught.Load().(os.Signal)
	return sig
}

// ReadInput reads the grid from path, or from stdin when path is "-" or empty.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return data, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceComplete: func(ctx context.Context, e *domain.TraceEvent) {
			logger.DebugContext(ctx, "Trace Complete", "outcome", e.Outcome, "steps", e.Steps, "visited", e.Visited, "duration", e.Duration)
		},
		OnCandidate: func(ctx context.Context, e *domain.CandidateEvent) {
			if e.Outcome != domain.OutcomeExit {
				logger.DebugContext(ctx, "Candidate", "position", e.Position, "outcome", e.Outcome)
			}
		},
		OnSearchComplete: func(ctx context.Context, e *domain.SearchEvent) {
			logger.DebugContext(ctx, "Search Complete", "candidates", e.Candidates, "loops", e.Loops, "blocked", e.Blocked)
		},
	}
}
