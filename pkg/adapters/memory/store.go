package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/patrol/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data     map[string]*domain.Report
	byDigest map[string]string
	mu       sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data:     make(map[string]*domain.Report),
		byDigest: make(map[string]string),
	}
}

// Save persists the report in memory.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := report.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[copied.ID] = copied
	if copied.Digest == "" {
		return nil
	}
	// The digest index names the newest report; an older one saved later does not win.
	if cur, ok := s.data[s.byDigest[copied.Digest]]; !ok || cur.ID == copied.ID || !copied.CreatedAt.Before(cur.CreatedAt) {
		s.byDigest[copied.Digest] = copied.ID
	}
	return nil
}

// Load retrieves the report from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}

	// Copy on read so caller can't mutate store state directly by pointer
	return report.Clone(), nil
}

// FindByDigest retrieves the latest report saved for a grid digest.
func (s *Store) FindByDigest(ctx context.Context, digest string) (*domain.Report, error) {
	s.mu.RLock()
	id, ok := s.byDigest[digest]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return s.Load(ctx, id)
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.data[id]
	delete(s.data, id)
	if !ok || s.byDigest[report.Digest] != id {
		return nil
	}

	// Fall back to the newest remaining report for the same grid.
	delete(s.byDigest, report.Digest)
	var latest *domain.Report
	for _, r := range s.data {
		if r.Digest == report.Digest && (latest == nil || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	if latest != nil {
		s.byDigest[report.Digest] = latest.ID
	}
	return nil
}

// List returns stored report IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
