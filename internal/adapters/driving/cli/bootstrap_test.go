package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/adapters/driven/config/file"
	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func TestCheckpointPaths(t *testing.T) {
	cfg := file.Default()
	cfg.CheckpointDir = "/data/checkpoints"

	db, keyword, vector := checkpointPaths(cfg, domain.Language("ja"))

	assert.Equal(t, filepath.Join("/data/checkpoints", "ja", "chunks.db"), db)
	assert.Equal(t, filepath.Join("/data/checkpoints", "ja", "keyword.idx"), keyword)
	assert.Equal(t, filepath.Join("/data/checkpoints", "ja", "vectors.idx"), vector)
}

func TestNewEmbedder(t *testing.T) {
	t.Run("none provider yields no embedder", func(t *testing.T) {
		cfg := file.Default()
		cfg.Embedding.Provider = file.EmbeddingNone

		embedder, err := newEmbedder(cfg)
		require.NoError(t, err)
		assert.Nil(t, embedder)
	})

	t.Run("ollama provider", func(t *testing.T) {
		cfg := file.Default()
		cfg.Embedding.Provider = file.EmbeddingOllama

		embedder, err := newEmbedder(cfg)
		require.NoError(t, err)
		assert.NotNil(t, embedder)
	})

	t.Run("openai provider requires API key", func(t *testing.T) {
		t.Setenv(envOpenAIKey, "")
		cfg := file.Default()
		cfg.Embedding.Provider = file.EmbeddingOpenAI

		_, err := newEmbedder(cfg)
		assert.Error(t, err)
	})
}

func TestBuildRemoteRegistry(t *testing.T) {
	entries := []domain.ManifestEntry{
		{Category: domain.CategoryItem, Title: "Moonlight Sword", ID: 42, RelativePath: "items/moonlight_sword.txt"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/manifest/en", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	}))
	defer srv.Close()

	cfg := file.Default()
	cfg.Mode = file.ModeRemote
	cfg.Languages = []string{"en"}
	cfg.Remote.BaseURL = srv.URL

	registry, err := buildRegistry(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())

	store, err := registry.Get(domain.Language("en"))
	require.NoError(t, err)
	assert.NotNil(t, store.Retriever)
	assert.NotNil(t, store.Manifest.Lookup("items/moonlight_sword.txt"))
}
