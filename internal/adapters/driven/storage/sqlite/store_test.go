package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "en", "chunks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testCorpus() map[string][]domain.Chunk {
	return map[string][]domain.Chunk{
		"file-a": {
			{FileID: "file-a", Index: 0, Text: "The kingdom of Aldren.", Path: "world/aldren.txt"},
			{FileID: "file-a", Index: 1, Text: "Its capital is Veyra.", Path: "world/aldren.txt"},
		},
		"file-b": {
			{FileID: "file-b", Index: 0, Text: "The Moonlight Sword.", Path: "items/moonlight_sword.txt"},
		},
	}
}

func TestSaveLoadChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testCorpus()))

	loaded, err := store.LoadChunks(ctx)
	require.NoError(t, err)

	assert.Equal(t, testCorpus(), loaded)
}

func TestSaveChunksReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testCorpus()))

	smaller := map[string][]domain.Chunk{
		"file-c": {
			{FileID: "file-c", Index: 0, Text: "A lone chunk.", Path: "quests/intro.txt"},
		},
	}
	require.NoError(t, store.SaveChunks(ctx, smaller))

	loaded, err := store.LoadChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller, loaded)
}

func TestLoadChunksEmpty(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadChunks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestChunkOrderRestored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert out of order; load must come back dense ascending.
	corpus := map[string][]domain.Chunk{
		"file-a": {
			{FileID: "file-a", Index: 2, Text: "third", Path: "p"},
			{FileID: "file-a", Index: 0, Text: "first", Path: "p"},
			{FileID: "file-a", Index: 1, Text: "second", Path: "p"},
		},
	}
	require.NoError(t, store.SaveChunks(ctx, corpus))

	loaded, err := store.LoadChunks(ctx)
	require.NoError(t, err)

	chunks := loaded["file-a"]
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestSaveLoadManifest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []domain.ManifestEntry{
		{Category: domain.CategoryWorld, Title: "Aldren", ID: 10, RelativePath: "world/aldren.txt"},
		{Category: domain.CategoryItem, Title: "Moonlight Sword", ID: 42, RelativePath: "items/moonlight_sword.txt"},
	}
	require.NoError(t, store.SaveManifest(ctx, entries))

	m, err := store.LoadManifest(ctx)
	require.NoError(t, err)

	assert.Equal(t, entries, m.Entries())
	entry := m.Lookup("items/moonlight_sword.txt")
	require.NotNil(t, entry)
	assert.Equal(t, domain.CategoryItem, entry.Category)
	assert.Equal(t, 42, entry.ID)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunks.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveChunks(ctx, testCorpus()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCorpus(), loaded)
}
