package ports

import (
	"context"

	"github.com/aretw0/patrol/pkg/domain"
)

// ReportStore defines the interface for persisting analysis reports.
type ReportStore interface {
	// Save persists the report under its ID, replacing any previous version.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report by ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// FindByDigest retrieves the newest report (by CreatedAt) for a grid digest.
	// Returns domain.ErrReportNotFound if none exists.
	FindByDigest(ctx context.Context, digest string) (*domain.Report, error)

	// Delete removes the report with the given ID.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored reports.
	List(ctx context.Context) ([]string, error)
}
