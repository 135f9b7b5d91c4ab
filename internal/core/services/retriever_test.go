package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func newTestRetriever(keyword *mockKeywordIndex, vector *mockVectorIndex, opts ...RetrieverOption) (*Retriever, map[string][]domain.Chunk) {
	corpus := fiveChunkCorpus()
	return NewRetriever(domain.LanguageEN, corpus, keyword, vector, opts...), corpus
}

func TestRetrieveEmptyQuery(t *testing.T) {
	r, _ := newTestRetriever(&mockKeywordIndex{}, &mockVectorIndex{})

	result, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "   "})

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRetrieveHybrid(t *testing.T) {
	corpus := fiveChunkCorpus()
	keyword := &mockKeywordIndex{hits: []domain.ScoredChunk{
		{Chunk: corpus["f1"][2], Score: 9.1},
		{Chunk: corpus["f2"][0], Score: 4.2},
	}}
	vector := &mockVectorIndex{hits: []domain.ScoredChunk{
		{Chunk: corpus["f1"][2], Score: 0.88},
		{Chunk: corpus["f3"][0], Score: 0.61},
	}}
	r := NewRetriever(domain.LanguageEN, corpus, keyword, vector)

	result, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "lore", K: 3, ChunkContext: 1})

	require.NoError(t, err)
	require.Len(t, result, 3)

	// f1 matched by both retrievers, so it fuses to the top.
	assert.Equal(t, "f1", result[0].Chunks[0].FileID)
	require.Len(t, result[0].Chunks, 3, "window 1 around index 2")
	assert.Equal(t, 1, result[0].Chunks[0].Index)
	assert.Equal(t, 3, result[0].Chunks[2].Index)
}

func TestRetrieveVectorFailureDegrades(t *testing.T) {
	corpus := fiveChunkCorpus()
	keyword := &mockKeywordIndex{hits: []domain.ScoredChunk{
		{Chunk: corpus["f1"][0], Score: 5},
	}}
	vector := &mockVectorIndex{searchErr: errors.New("backend unreachable")}
	r := NewRetriever(domain.LanguageEN, corpus, keyword, vector)

	result, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "lore", K: 2})

	require.NoError(t, err, "vector failure degrades, never escalates")
	require.Len(t, result, 1)
	assert.Equal(t, "f1", result[0].Chunks[0].FileID)
}

func TestRetrieveAllLegsFailed(t *testing.T) {
	keyword := &mockKeywordIndex{searchErr: errors.New("boom")}
	vector := &mockVectorIndex{searchErr: errors.New("boom")}
	r, _ := newTestRetriever(keyword, vector)

	result, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "lore", K: 2})

	require.NoError(t, err)
	assert.Empty(t, result, "explicit empty-result marker, not an error")
}

func TestRetrieveNilVectorBackend(t *testing.T) {
	corpus := fiveChunkCorpus()
	keyword := &mockKeywordIndex{hits: []domain.ScoredChunk{
		{Chunk: corpus["f2"][1], Score: 3},
	}}
	r := NewRetriever(domain.LanguageEN, corpus, keyword, nil)

	result, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "lore", K: 1})

	require.NoError(t, err)
	require.Len(t, result, 1)
}

func TestRetrieveRunsEveryVariantThroughBothLegs(t *testing.T) {
	corpus := fiveChunkCorpus()
	keyword := &mockKeywordIndex{hits: []domain.ScoredChunk{{Chunk: corpus["f1"][0], Score: 1}}}
	vector := &mockVectorIndex{hits: []domain.ScoredChunk{{Chunk: corpus["f1"][0], Score: 1}}}

	tr := NewLLMTransformer(&mockRewriter{variants: []string{"v1", "v2"}}, 2)
	r := NewRetriever(domain.LanguageEN, corpus, keyword, vector, WithTransformer(tr))

	_, err := r.Retrieve(context.Background(), domain.RetrieveQuery{Query: "original", K: 2})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"original", "v1", "v2"}, keyword.queries)
	assert.ElementsMatch(t, []string{"original", "v1", "v2"}, vector.queries)
}

func TestRetrieveBM25KeywordOnly(t *testing.T) {
	corpus := fiveChunkCorpus()
	keyword := &mockKeywordIndex{hits: []domain.ScoredChunk{
		{Chunk: corpus["f1"][1], Score: 7},
	}}
	vector := &mockVectorIndex{searchErr: errors.New("must not be called")}
	r := NewRetriever(domain.LanguageEN, corpus, keyword, vector)

	result, err := r.RetrieveBM25(context.Background(), domain.RetrieveQuery{Query: "lore", K: 1, ChunkContext: 0})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Empty(t, vector.queries, "BM25 variant never touches the vector leg")
}

func TestGetChunk(t *testing.T) {
	r, corpus := newTestRetriever(&mockKeywordIndex{}, nil)
	ctx := context.Background()

	chunk, err := r.GetChunk(ctx, "f1", 2)
	require.NoError(t, err)
	assert.Equal(t, corpus["f1"][2], chunk)

	_, err = r.GetChunk(ctx, "missing", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.GetChunk(ctx, "f1", 99)
	var rangeErr *domain.ChunkRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 99, rangeErr.Index)
	assert.ErrorIs(t, err, domain.ErrNotFound, "range errors unwrap to not-found")

	_, err = r.GetChunk(ctx, "f1", -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetFileChunkCount(t *testing.T) {
	r, _ := newTestRetriever(&mockKeywordIndex{}, nil)
	ctx := context.Background()

	n, err := r.GetFileChunkCount(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = r.GetFileChunkCount(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetFileChunks(t *testing.T) {
	r, corpus := newTestRetriever(&mockKeywordIndex{}, nil)
	ctx := context.Background()

	chunks, err := r.GetFileChunks(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, corpus["f2"], chunks)

	_, err = r.GetFileChunks(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
