package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
)

type cacheMiddleware struct {
	next  ports.ReportStore
	cache ports.ReportStore
}

// NewCacheMiddleware keeps a write-through copy of reports in cache (usually a memory
// store) so repeated lookups skip the slower backend. Only safe when this process is
// the sole writer of the backend.
func NewCacheMiddleware(cache ports.ReportStore) Middleware {
	return func(next ports.ReportStore) ports.ReportStore {
		return &cacheMiddleware{next: next, cache: cache}
	}
}

func (m *cacheMiddleware) Save(ctx context.Context, report *domain.Report) error {
	if err := m.next.Save(ctx, report); err != nil {
		return err
	}
	return m.cache.Save(ctx, report)
}

func (m *cacheMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.readThrough(ctx,
		func(s ports.ReportStore) (*domain.Report, error) { return s.Load(ctx, id) })
}

func (m *cacheMiddleware) FindByDigest(ctx context.Context, digest string) (*domain.Report, error) {
	return m.readThrough(ctx,
		func(s ports.ReportStore) (*domain.Report, error) { return s.FindByDigest(ctx, digest) })
}

func (m *cacheMiddleware) readThrough(ctx context.Context, get func(ports.ReportStore) (*domain.Report, error)) (*domain.Report, error) {
	if r, err := get(m.cache); err == nil {
		return r, nil
	} else if !errors.Is(err, domain.ErrReportNotFound) {
		return nil, err
	}

	r, err := get(m.next)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (m *cacheMiddleware) Delete(ctx context.Context, id string) error {
	if err := m.next.Delete(ctx, id); err != nil {
		return err
	}
	return m.cache.Delete(ctx, id)
}

func (m *cacheMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
