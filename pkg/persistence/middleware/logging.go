package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ReportStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level, and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ReportStore) ports.ReportStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, key string, begin time.Time, err error) {
	if err != nil {
		m.logger.WarnContext(ctx, "report store "+op+" failed", "key", key, "err", err)
		return
	}
	m.logger.DebugContext(ctx, "report store "+op, "key", key, "duration", time.Since(begin))
}

func (m *loggingMiddleware) Save(ctx context.Context, report *domain.Report) error {
	begin := time.Now()
	err := m.next.Save(ctx, report)
	m.log(ctx, "save", report.ID, begin, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	begin := time.Now()
	r, err := m.next.Load(ctx, id)
	m.log(ctx, "load", id, begin, err)
	return r, err
}

func (m *loggingMiddleware) FindByDigest(ctx context.Context, digest string) (*domain.Report, error) {
	begin := time.Now()
	r, err := m.next.FindByDigest(ctx, digest)
	// A miss is the normal path for a fresh grid.
	if errors.Is(err, domain.ErrReportNotFound) {
		m.log(ctx, "find (miss)", digest, begin, nil)
		return r, err
	}
	m.log(ctx, "find", digest, begin, err)
	return r, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	begin := time.Now()
	err := m.next.Delete(ctx, id)
	m.log(ctx, "delete", id, begin, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	begin := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", begin, err)
	return ids, err
}
