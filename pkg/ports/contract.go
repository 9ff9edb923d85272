package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractReport(id, digest string) *domain.Report {
	return &domain.Report{
		ID:         id,
		Digest:     digest,
		Width:      10,
		Height:     10,
		Obstacles:  8,
		Start:      domain.Pos(4, 6),
		Heading:    domain.Up,
		Baseline:   domain.OutcomeExit,
		Visited:    41,
		Candidates: 40,
		Loops:      []domain.Position{domain.Pos(3, 6), domain.Pos(6, 7)},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405")
	id := "contract-report-" + suffix
	digest := "contract-digest-" + suffix

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport(id, digest)

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Digest, loaded.Digest)
		assert.Equal(t, report.Visited, loaded.Visited)
		assert.Equal(t, report.Start, loaded.Start)
		assert.Equal(t, report.Baseline, loaded.Baseline)
		assert.Equal(t, report.Loops, loaded.Loops)
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Loops[0] = domain.Pos(0, 0)

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.Pos(3, 6), again.Loops[0])
	})

	t.Run("Find By Digest", func(t *testing.T) {
		found, err := store.FindByDigest(ctx, digest)
		require.NoError(t, err)
		assert.Equal(t, id, found.ID)

		_, err = store.FindByDigest(ctx, "missing-"+digest)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")

		_, err = store.FindByDigest(ctx, digest)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "digest index is cleared on Delete")
	})

	t.Run("Find By Digest Prefers Newest", func(t *testing.T) {
		newer := contractReport(id+"-newer", digest+"-ranked")
		newer.CreatedAt = newer.CreatedAt.Add(time.Hour)
		older := contractReport(id+"-older", digest+"-ranked")
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)

		require.NoError(t, store.Save(ctx, newer))
		require.NoError(t, store.Save(ctx, older))
		defer func() {
			_ = store.Delete(ctx, newer.ID)
			_ = store.Delete(ctx, older.ID)
		}()

		found, err := store.FindByDigest(ctx, newer.Digest)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID, "saving an older report must not take over the digest")

		_, err = store.Load(ctx, older.ID)
		require.NoError(t, err)

		found, err = store.FindByDigest(ctx, newer.Digest)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID, "loading an older report must not take over the digest")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, contractReport(id1, digest+"-1")))
		require.NoError(t, store.Save(ctx, contractReport(id2, digest+"-2")))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
