package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/patrol/internal/compiler"
	"github.com/aretw0/patrol/internal/logging"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates analysis access, ensuring one computation per grid at a time.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	sim   ports.Simulator
	store ports.ReportStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks, keyed by grid digest

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager running analyses on sim and persisting them to store.
func NewManager(sim ports.Simulator, store ports.ReportStore, opts ...Option) *Manager {
	m := &Manager{
		sim:     sim,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Analyze returns the report for the grid text in input. A stored report for the same
// grid is returned as is (cached = true); otherwise the grid is parsed, searched and
// the new report saved.
func (m *Manager) Analyze(ctx context.Context, input []byte) (report *domain.Report, cached bool, err error) {
	return m.analyze(ctx, input, true)
}

// Reanalyze always recomputes and saves a fresh report.
func (m *Manager) Reanalyze(ctx context.Context, input []byte) (*domain.Report, error) {
	report, _, err := m.analyze(ctx, input, false)
	return report, err
}

func (m *Manager) analyze(ctx context.Context, input []byte, useCache bool) (*domain.Report, bool, error) {
	digest := compiler.Digest(input)

	var (
		report *domain.Report
		cached bool
	)
	err := m.WithLock(ctx, digest, func(ctx context.Context) error {
		if useCache {
			existing, err := m.store.FindByDigest(ctx, digest)
			if err == nil {
				report, cached = existing, true
				return nil
			}
			if !errors.Is(err, domain.ErrReportNotFound) {
				return fmt.Errorf("failed to check stored reports: %w", err)
			}
		}

		sc, err := m.sim.Parse(input)
		if err != nil {
			return err
		}
		res, err := m.sim.Search(ctx, sc)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		report = domain.NewReport(digest, sc, res)
		if err := m.store.Save(ctx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		m.logger.InfoContext(ctx, "report saved",
			"report_id", report.ID,
			"visited", report.Visited,
			"loops", report.LoopCount(),
		)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return report, cached, nil
}

// Load retrieves a stored report.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.store.Load(ctx, id)
}

// Delete removes a stored report.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying report store.
func (m *Manager) Store() ports.ReportStore {
	return m.store
}

// WithLock executes a function while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
