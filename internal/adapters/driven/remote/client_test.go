package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func wireFixture() domain.RetrieveResponse {
	return domain.RetrieveResponse{
		Query: "moonlight sword",
		Results: []domain.WireResult{
			{
				Score: 0.42,
				Documents: []domain.WireDocument{
					{
						Content: "The Moonlight Sword was forged under a full moon.",
						Metadata: domain.WireMetadata{
							FileID:     "file-a",
							ChunkIndex: 3,
							Path:       "items/moonlight_sword.txt",
						},
					},
				},
			},
		},
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:  srv.URL,
		Language: domain.LanguageEN,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(Config{Language: domain.LanguageEN})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://localhost:9000"})
	assert.Error(t, err)
}

func TestRetrieveRoundTrip(t *testing.T) {
	var gotPath string
	var gotReq domain.RetrieveRequest

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		require.NoError(t, json.NewEncoder(w).Encode(wireFixture()))
	}))

	result, err := client.Retrieve(context.Background(), domain.RetrieveQuery{
		Query:        "moonlight sword",
		K:            5,
		ChunkContext: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/retrieve", gotPath)
	assert.Equal(t, "en", gotReq.Language)
	assert.Equal(t, 5, gotReq.K)
	assert.Equal(t, 2, gotReq.ChunkContext)

	require.Len(t, result, 1)
	assert.Equal(t, 0.42, result[0].Score)
	require.Len(t, result[0].Chunks, 1)
	assert.Equal(t, "file-a", result[0].Chunks[0].FileID)
	assert.Equal(t, 3, result[0].Chunks[0].Index)
	assert.Equal(t, "items/moonlight_sword.txt", result[0].Chunks[0].Path)
}

func TestRetrieveBM25UsesKeywordRoute(t *testing.T) {
	var gotPath string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewEncoder(w).Encode(domain.RetrieveResponse{}))
	}))

	_, err := client.RetrieveBM25(context.Background(), domain.RetrieveQuery{Query: "sword", K: 3})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/retrieve/bm25", gotPath)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(domain.WireError{Error: "file not found", Value: "missing"})
	}))

	_, err := client.FileChunks(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestBadRequestIsNotNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(domain.WireError{Error: "k must be positive", Value: "-1"})
	}))

	_, err := client.Retrieve(context.Background(), domain.RetrieveQuery{Query: "sword", K: -1})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "k must be positive")
}

func TestManifestFetch(t *testing.T) {
	entries := []domain.ManifestEntry{
		{Category: domain.CategoryItem, Title: "Moonlight Sword", ID: 1, RelativePath: "items/moonlight_sword.txt"},
	}

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewEncoder(w).Encode(entries))
	}))

	m, err := client.Manifest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/manifest/en", gotPath)
	assert.Equal(t, 1, m.Len())
	entry := m.Lookup("items/moonlight_sword.txt")
	require.NotNil(t, entry)
	assert.Equal(t, "Moonlight Sword", entry.Title)
}

func TestLanguages(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/languages", r.URL.Path)
		json.NewEncoder(w).Encode(domain.LanguagesResponse{Languages: []string{"en", "ja"}})
	}))

	langs, err := client.Languages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Language{domain.LanguageEN, domain.LanguageJA}, langs)
}
