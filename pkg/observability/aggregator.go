package observability

import (
	"context"

	"github.com/aretw0/patrol/pkg/domain"
)

// Combine merges several hook sets into one. Nil callbacks are skipped, and each event
// is delivered in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var traces []func(context.Context, *domain.TraceEvent)
	var candidates []func(context.Context, *domain.CandidateEvent)
	var searches []func(context.Context, *domain.SearchEvent)
	for _, s := range sets {
		if s.OnTraceComplete != nil {
			traces = append(traces, s.OnTraceComplete)
		}
		if s.OnCandidate != nil {
			candidates = append(candidates, s.OnCandidate)
		}
		if s.OnSearchComplete != nil {
			searches = append(searches, s.OnSearchComplete)
		}
	}

	var out domain.LifecycleHooks
	if len(traces) > 0 {
		out.OnTraceComplete = func(ctx context.Context, e *domain.TraceEvent) {
			for _, fn := range traces {
				fn(ctx, e)
			}
		}
	}
	if len(candidates) > 0 {
		out.OnCandidate = func(ctx context.Context, e *domain.CandidateEvent) {
			for _, fn := range candidates {
				fn(ctx, e)
			}
		}
	}
	if len(searches) > 0 {
		out.OnSearchComplete = func(ctx context.Context, e *domain.SearchEvent) {
			for _, fn := range searches {
				fn(ctx, e)
			}
		}
	}
	return out
}
