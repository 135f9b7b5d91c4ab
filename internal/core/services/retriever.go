package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/core/ports/driving"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Ensure Retriever implements the driving port.
var _ driving.Retriever = (*Retriever)(nil)

// DefaultFileLimit is the number of distinct files returned when the
// query does not specify k.
const DefaultFileLimit = 5

// Retriever is the in-process retrieval facade for one language: it
// orchestrates query transformation, parallel keyword+vector retrieval,
// rank fusion, optional reranking and context expansion, and answers the
// citation-time chunk lookups against the immutable corpus map.
type Retriever struct {
	language    domain.Language
	corpus      map[string][]domain.Chunk
	keyword     driven.KeywordIndex
	vector      driven.VectorIndex
	transformer QueryTransformer
	reranker    Reranker
	expander    *ContextExpander
}

// RetrieverOption configures the retriever.
type RetrieverOption func(*Retriever)

// WithTransformer replaces the default identity query transformer.
func WithTransformer(t QueryTransformer) RetrieverOption {
	return func(r *Retriever) {
		if t != nil {
			r.transformer = t
		}
	}
}

// WithReranker replaces the default RRF reranker.
func WithReranker(rr Reranker) RetrieverOption {
	return func(r *Retriever) {
		if rr != nil {
			r.reranker = rr
		}
	}
}

// NewRetriever creates a retriever over an already-built corpus and its
// indexes. vector may be nil: retrieval degrades to keyword-only.
// An empty corpus is served as-is - every query returns no results -
// because index builders reject empty corpora at build time.
func NewRetriever(
	language domain.Language,
	corpus map[string][]domain.Chunk,
	keyword driven.KeywordIndex,
	vector driven.VectorIndex,
	opts ...RetrieverOption,
) *Retriever {
	r := &Retriever{
		language:    language,
		corpus:      corpus,
		keyword:     keyword,
		vector:      vector,
		transformer: IdentityTransformer{},
		reranker:    NewRRFReranker(),
		expander:    NewContextExpander(corpus),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language returns the corpus language this retriever serves.
func (r *Retriever) Language() domain.Language {
	return r.language
}

// Retrieve runs the full hybrid pipeline.
func (r *Retriever) Retrieve(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	logger.Section("Retrieval")

	query := strings.TrimSpace(q.Query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return domain.RetrieveResult{}, nil
	}

	k := q.K
	if k <= 0 {
		k = DefaultFileLimit
	}
	window := q.ChunkContext
	if window < 0 {
		window = 0
	}

	variants := r.transformer.Transform(ctx, query)
	logger.Debug("Query %q: %d variant(s), k=%d, window=%d", query, len(variants), k, window)

	// Overfetch per leg so candidates survive fusion's rank dilution.
	fetch := k * 2

	legs := 2 // keyword + vector per variant
	lists := make([][]domain.ScoredChunk, len(variants)*legs)
	errs := make([]error, len(variants)*legs)

	var wg sync.WaitGroup
	for vi, variant := range variants {
		wg.Add(2)

		go func(slot int, q string) {
			defer wg.Done()
			lists[slot], errs[slot] = r.keywordSearch(ctx, q, fetch)
		}(vi*legs, variant)

		go func(slot int, q string) {
			defer wg.Done()
			lists[slot], errs[slot] = r.vectorSearch(ctx, q, fetch)
		}(vi*legs+1, variant)
	}
	wg.Wait()

	// Each variant gets equal total weight regardless of how many
	// variants were generated; keyword and vector split it evenly.
	variantWeight := 1.0 / float64(len(variants))
	legWeight := variantWeight / float64(legs)

	var okLists [][]domain.ScoredChunk
	var weights []float64
	for i, list := range lists {
		if errs[i] != nil {
			// Degraded leg: logged at the source, skipped here.
			continue
		}
		okLists = append(okLists, list)
		weights = append(weights, legWeight)
	}
	if len(okLists) == 0 {
		logger.Warn("All retrieval legs failed for %q", query)
		return domain.RetrieveResult{}, nil
	}

	fused := r.reranker.Rerank(ctx, query, okLists, weights)
	logger.Debug("Fused %d list(s) into %d candidate(s)", len(okLists), len(fused))

	return r.expander.Expand(fused, k, window), nil
}

// RetrieveBM25 is the keyword-only variant: no query transformation, no
// vector leg, no reranking beyond the BM25 order itself.
func (r *Retriever) RetrieveBM25(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return domain.RetrieveResult{}, nil
	}

	k := q.K
	if k <= 0 {
		k = DefaultFileLimit
	}
	window := q.ChunkContext
	if window < 0 {
		window = 0
	}

	hits, err := r.keywordSearch(ctx, query, k*2)
	if err != nil {
		return nil, fmt.Errorf("keyword retrieval: %w", err)
	}

	return r.expander.Expand(hits, k, window), nil
}

// keywordSearch runs the lexical leg.
func (r *Retriever) keywordSearch(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if r.keyword == nil {
		return nil, nil
	}
	hits, err := r.keyword.Search(ctx, query, k)
	if err != nil {
		logger.Warn("Keyword search failed for %q: %v", query, err)
		return nil, err
	}
	logger.Debug("Keyword search %q: %d hit(s)", query, len(hits))
	return hits, nil
}

// vectorSearch runs the semantic leg. A missing or unreachable vector
// backend degrades the query to keyword-only; it never fails it.
func (r *Retriever) vectorSearch(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if r.vector == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	hits, err := r.vector.Search(ctx, query, k)
	if err != nil {
		logger.Warn("Vector search failed for %q: %v", query, err)
		return nil, err
	}
	logger.Debug("Vector search %q: %d hit(s)", query, len(hits))
	return hits, nil
}

// GetChunk resolves one chunk by its stable (file_id, chunk_index)
// address. Pure read against the immutable corpus map.
func (r *Retriever) GetChunk(_ context.Context, fileID string, index int) (domain.Chunk, error) {
	chunks, ok := r.corpus[fileID]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	if index < 0 || index >= len(chunks) {
		return domain.Chunk{}, &domain.ChunkRangeError{FileID: fileID, Index: index, Count: len(chunks)}
	}
	return chunks[index], nil
}

// GetFileChunkCount returns the number of chunks in a file.
func (r *Retriever) GetFileChunkCount(_ context.Context, fileID string) (int, error) {
	chunks, ok := r.corpus[fileID]
	if !ok {
		return 0, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return len(chunks), nil
}

// GetFileChunks returns a file's full chunk sequence in index order.
func (r *Retriever) GetFileChunks(_ context.Context, fileID string) ([]domain.Chunk, error) {
	chunks, ok := r.corpus[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return chunks, nil
}
