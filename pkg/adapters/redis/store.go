package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/patrol/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store and the locker.
const DefaultPrefix = "patrol:"

// Store implements ports.ReportStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for reports.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for reports.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id string) string {
	return s.prefix + "report:" + id
}

func (s *Store) digestKey(digest string) string {
	return s.prefix + "digest:" + digest
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the report to Redis.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	pipe := s.client.TxPipeline()

	// 1. Save JSON with TTL (0 = no expiration)
	pipe.Set(ctx, s.key(report.ID), data, s.ttl)

	// 2. Rank the report among those for its digest, newest CreatedAt first
	if report.Digest != "" {
		pipe.ZAdd(ctx, s.digestKey(report.Digest), backend.Z{
			Score:  float64(report.CreatedAt.UnixMicro()),
			Member: report.ID,
		})
		if s.ttl > 0 {
			pipe.Expire(ctx, s.digestKey(report.Digest), s.ttl)
		}
	}

	// 3. Add to Index (ZSET). Score = expiry time; far future when TTL = 0.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: report.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the report from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// FindByDigest loads the newest report ranked under the digest, pruning entries whose
// report has expired.
func (s *Store) FindByDigest(ctx context.Context, digest string) (*domain.Report, error) {
	ids, err := s.client.ZRevRange(ctx, s.digestKey(digest), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve digest: %w", err)
	}
	for _, id := range ids {
		report, err := s.Load(ctx, id)
		if errors.Is(err, domain.ErrReportNotFound) {
			s.client.ZRem(ctx, s.digestKey(digest), id)
			continue
		}
		return report, err
	}
	return nil, domain.ErrReportNotFound
}

// Delete removes the report and its digest ranking.
func (s *Store) Delete(ctx context.Context, id string) error {
	report, err := s.Load(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrReportNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if report != nil && report.Digest != "" {
		pipe.ZRem(ctx, s.digestKey(report.Digest), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns stored report IDs, pruning expired entries from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired reports: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
