package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/patrol/pkg/adapters/file"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunReportStoreContract(t, store)
}

func TestFileStore_AtomicLayout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Report{ID: "abc", Digest: "d"}))
	require.NoError(t, store.Save(ctx, &domain.Report{ID: "abc", Digest: "d", Visited: 7}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "abc.json", entries[0].Name())

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Visited)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, &domain.Report{ID: filepath.Join("..", "escape")}))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
