package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreSaveLoad(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, StageDetailed)
	require.NoError(t, err)
	assert.False(t, ok, "missing artifact is absence, not an error")

	require.NoError(t, store.Save(ctx, StageDetailed, []byte(`{"results":[]}`)))
	data, ok, err := store.Load(ctx, StageDetailed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"results":[]}`, string(data))
}

func TestFSStoreOverwritesWholesale(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, StageReported, []byte("first version, long payload")))
	require.NoError(t, store.Save(ctx, StageReported, []byte("second")))

	data, ok, err := store.Load(ctx, StageReported)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", string(data))
}

func TestFSStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), StageShortened, []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shortened.json", entries[0].Name())
}

func TestFSStoreStagesAreIndependent(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, StageDetailed, []byte("d")))
	_, ok, err := store.Load(ctx, StageShortened)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFSStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewFSStore(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
