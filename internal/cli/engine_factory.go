package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/patrol"
	"github.com/aretw0/patrol/internal/config"
	"github.com/aretw0/patrol/internal/logging"
	"github.com/aretw0/patrol/pkg/adapters/file"
	"github.com/aretw0/patrol/pkg/adapters/memory"
	"github.com/aretw0/patrol/pkg/adapters/redis"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/observability"
	"github.com/aretw0/patrol/pkg/persistence/middleware"
	"github.com/aretw0/patrol/pkg/ports"
	"github.com/aretw0/patrol/pkg/session"
)

// NewLogger builds the application logger from the configured level.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// NewEngine initializes a patrol engine with standard CLI conventions.
// Extra hooks (such as metrics) are combined with debug logging hooks.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*patrol.Engine, error) {
	all := append([]domain.LifecycleHooks{createDebugHooks(logger)}, hooks...)

	engine, err := patrol.New(
		patrol.WithLogger(logger),
		patrol.WithWorkers(cfg.Workers),
		patrol.WithExhaustive(cfg.Exhaustive),
		patrol.WithLifecycleHooks(observability.Combine(all...)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// Persistence bundles the configured report store with its optional distributed locker.
type Persistence struct {
	Store  ports.ReportStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases backend connections.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// NewPersistence opens the report store selected by cfg.Store.Backend.
// Every backend logs its operations; the file backend also gets an in-memory cache,
// since digest lookups otherwise scan the whole directory.
func NewPersistence(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Persistence, error) {
	logged := middleware.NewLoggingMiddleware(logger)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return &Persistence{Store: middleware.Chain(memory.NewStore(), logged)}, nil
	case config.BackendFile:
		store := middleware.Chain(file.New(cfg.Store.Dir), logged, middleware.NewCacheMiddleware(memory.NewStore()))
		return &Persistence{Store: store}, nil
	case config.BackendRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
		}
		return &Persistence{
			Store:  middleware.Chain(store, logged),
			Locker: redis.NewLocker(store.Client(), rc.Prefix),
			close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// NewManager wires the engine and persistence into a session manager.
func NewManager(engine *patrol.Engine, p *Persistence, logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}
	return session.NewManager(engine, p.Store, opts...)
}
