package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/patrol/pkg/adapters/redis"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunReportStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	report := &domain.Report{ID: "report-ttl", Digest: "digest-ttl", Visited: 3}

	require.NoError(t, store.Save(ctx, report))

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, report.ID)

	// Fast Forward time in miniredis (for key expiration)
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, report.ID)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	_, err = store.FindByDigest(ctx, report.Digest)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	// Lazy index cleanup compares against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Report{ID: "r1", Digest: "d1"})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:report:r1"), "Expected report key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:digest:d1"), "Expected digest key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestRedisStore_DigestPointsAtLatest(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "old", Digest: "same", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "new", Digest: "same", CreatedAt: now}))

	// Deleting the superseded report keeps the pointer to the newer one.
	require.NoError(t, store.Delete(ctx, "old"))

	found, err := store.FindByDigest(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "new", found.ID)
}

func TestRedisStore_DigestRankedByCreatedAt(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "new", Digest: "same", CreatedAt: now}))
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "old", Digest: "same", CreatedAt: now.Add(-time.Hour)}))

	found, err := store.FindByDigest(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "new", found.ID, "an older report saved later does not take over the digest")

	// Deleting the newest falls back to the next one.
	require.NoError(t, store.Delete(ctx, "new"))
	found, err = store.FindByDigest(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "old", found.ID)
}
