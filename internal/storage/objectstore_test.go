package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-companion/internal/storage"
)

func TestFSStorePutGet(t *testing.T) {
	store := storage.NewFSStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "reports/server-1/doc.json", []byte(`{"ok":true}`)))

	data, err := store.Get(ctx, "reports/server-1/doc.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestFSStoreGetMissing(t *testing.T) {
	store := storage.NewFSStore(t.TempDir())

	_, err := store.Get(context.Background(), "reports/absent.json")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestFSStoreOverwrite(t *testing.T) {
	store := storage.NewFSStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "doc.json", []byte("v1")))
	require.NoError(t, store.Put(ctx, "doc.json", []byte("v2")))

	data, err := store.Get(ctx, "doc.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestFSStoreNestedKeys(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFSStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b/c/d.json", []byte("x")))

	// Slash-separated keys map onto the directory tree.
	assert.FileExists(t, filepath.Join(dir, "a", "b", "c", "d.json"))
}
