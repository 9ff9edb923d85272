package observability

import (
	"context"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Traces         *prometheus.CounterVec
	TraceSteps     prometheus.Histogram
	Candidates     *prometheus.CounterVec
	Searches       prometheus.Counter
	SearchDuration prometheus.Histogram
	LoopCells      prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patrol_traces_total",
				Help: "Total number of baseline patrols traced, by outcome",
			},
			[]string{"outcome"},
		),
		TraceSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "patrol_trace_steps",
			Help:    "Number of moves made by a baseline patrol",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patrol_candidates_total",
				Help: "Total number of obstruction candidates probed, by outcome",
			},
			[]string{"outcome"},
		),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patrol_searches_total",
			Help: "Total number of completed obstruction searches",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "patrol_search_duration_seconds",
			Help:    "Duration of obstruction searches",
			Buckets: prometheus.DefBuckets,
		}),
		LoopCells: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patrol_loop_cells_total",
			Help: "Total number of loop-inducing cells found",
		}),
	}

	for _, c := range []prometheus.Collector{m.Traces, m.TraceSteps, m.Candidates, m.Searches, m.SearchDuration, m.LoopCells} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceComplete: func(_ context.Context, e *domain.TraceEvent) {
			m.Traces.WithLabelValues(e.Outcome.String()).Inc()
			m.TraceSteps.Observe(float64(e.Steps))
		},
		OnCandidate: func(_ context.Context, e *domain.CandidateEvent) {
			m.Candidates.WithLabelValues(e.Outcome.String()).Inc()
		},
		OnSearchComplete: func(_ context.Context, e *domain.SearchEvent) {
			m.Searches.Inc()
			m.SearchDuration.Observe(e.Duration.Seconds())
			m.LoopCells.Add(float64(e.Loops))
		},
	}
}
