package ports

import (
	"context"

	"github.com/aretw0/patrol/pkg/domain"
)

// Simulator defines the operations adapters (HTTP, MCP, session manager) need from the engine.
// Implementations hold no per-request state.
type Simulator interface {
	// Parse converts a text grid into a scenario.
	Parse(data []byte) (*domain.Scenario, error)

	// Trace runs the baseline patrol for a scenario.
	Trace(ctx context.Context, sc *domain.Scenario) (*domain.Trace, error)

	// Search runs the obstruction search for a scenario.
	Search(ctx context.Context, sc *domain.Scenario) (*domain.SearchResult, error)
}
