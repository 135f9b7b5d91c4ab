package services

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockKeywordIndex implements driven.KeywordIndex for testing.
type mockKeywordIndex struct {
	hits      []domain.ScoredChunk
	built     []domain.Chunk
	searchErr error
	buildErr  error
	savedTo   string
	queries   []string
}

var _ driven.KeywordIndex = (*mockKeywordIndex)(nil)

func (m *mockKeywordIndex) Build(_ context.Context, chunks []domain.Chunk) error {
	m.built = chunks
	return m.buildErr
}

func (m *mockKeywordIndex) Search(_ context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockKeywordIndex) Save(path string) error {
	m.savedTo = path
	return nil
}

func (m *mockKeywordIndex) Load(_ string) error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits       []domain.ScoredChunk
	built      []domain.Chunk
	searchErr  error
	buildErr   error
	unsupAll   bool
	savedTo    string
	queries    []string
}

var _ driven.VectorIndex = (*mockVectorIndex)(nil)

func (m *mockVectorIndex) Build(_ context.Context, chunks []domain.Chunk) error {
	if m.unsupAll {
		return domain.ErrUnsupportedOperation
	}
	m.built = chunks
	return m.buildErr
}

func (m *mockVectorIndex) Search(_ context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Save(path string) error {
	if m.unsupAll {
		return domain.ErrUnsupportedOperation
	}
	m.savedTo = path
	return nil
}

func (m *mockVectorIndex) Load(_ string) error {
	if m.unsupAll {
		return domain.ErrUnsupportedOperation
	}
	return nil
}

// mockRewriter implements driven.QueryRewriter for testing.
type mockRewriter struct {
	variants []string
	err      error
}

var _ driven.QueryRewriter = (*mockRewriter)(nil)

func (m *mockRewriter) Rewrite(_ context.Context, _ string, _ int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.variants, nil
}

func (m *mockRewriter) ModelName() string { return "mock-rewriter" }
func (m *mockRewriter) Close() error      { return nil }

// mockRerankService implements driven.RerankService for testing.
type mockRerankService struct {
	scores []float64
	err    error
	gotDoc []string
}

var _ driven.RerankService = (*mockRerankService)(nil)

func (m *mockRerankService) Rerank(_ context.Context, _ string, docs []string) ([]float64, error) {
	m.gotDoc = docs
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

func (m *mockRerankService) ModelName() string { return "mock-rerank" }
func (m *mockRerankService) Close() error      { return nil }

// mockCorpusStore implements driven.CorpusStore for testing.
type mockCorpusStore struct {
	corpus   map[string][]domain.Chunk
	manifest []domain.ManifestEntry
	saveErr  error
}

var _ driven.CorpusStore = (*mockCorpusStore)(nil)

func (m *mockCorpusStore) SaveChunks(_ context.Context, corpus map[string][]domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.corpus = corpus
	return nil
}

func (m *mockCorpusStore) LoadChunks(_ context.Context) (map[string][]domain.Chunk, error) {
	return m.corpus, nil
}

func (m *mockCorpusStore) SaveManifest(_ context.Context, entries []domain.ManifestEntry) error {
	m.manifest = entries
	return nil
}

func (m *mockCorpusStore) LoadManifest(_ context.Context) (*domain.Manifest, error) {
	return domain.NewManifest(m.manifest), nil
}

func (m *mockCorpusStore) Close() error { return nil }

// --- Fixtures ---

// testCorpus builds a small corpus: one file per entry, chunked per text.
func testCorpus(files map[string][]string) map[string][]domain.Chunk {
	corpus := make(map[string][]domain.Chunk, len(files))
	for fileID, texts := range files {
		chunks := make([]domain.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = domain.Chunk{
				FileID: fileID,
				Index:  i,
				Text:   text,
				Path:   fileID + ".txt",
			}
		}
		corpus[fileID] = chunks
	}
	return corpus
}
