package services

import (
	"context"
	"sort"
	"time"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Reranker produces a single ranked candidate list from the per-retriever,
// per-variant ranked lists. Which implementation runs is a deployment-time
// configuration choice, not a per-query one.
type Reranker interface {
	Rerank(ctx context.Context, query string, lists [][]domain.ScoredChunk, weights []float64) []domain.ScoredChunk
}

// RRFReranker is the default reranker: it delegates straight to the
// fusion engine.
type RRFReranker struct {
	fusion *FusionEngine
}

// Ensure RRFReranker implements the interface.
var _ Reranker = (*RRFReranker)(nil)

// NewRRFReranker creates the default reranker.
func NewRRFReranker() *RRFReranker {
	return &RRFReranker{fusion: NewFusionEngine()}
}

// Rerank fuses the lists with reciprocal rank fusion.
func (r *RRFReranker) Rerank(_ context.Context, _ string, lists [][]domain.ScoredChunk, weights []float64) []domain.ScoredChunk {
	return r.fusion.Fuse(lists, weights)
}

// DefaultRerankTimeout bounds the external rerank call.
const DefaultRerankTimeout = 15 * time.Second

// CrossEncoderReranker scores the fused candidate set with an external
// cross-encoder model, discarding the RRF weighting in favour of the
// learned relevance scores. On any failure it falls back to the RRF
// ordering; reranking degrades, it never fails the query.
type CrossEncoderReranker struct {
	service  driven.RerankService
	fallback *RRFReranker
	timeout  time.Duration
}

// Ensure CrossEncoderReranker implements the interface.
var _ Reranker = (*CrossEncoderReranker)(nil)

// NewCrossEncoderReranker creates a reranker backed by an external
// cross-encoder endpoint.
func NewCrossEncoderReranker(service driven.RerankService) *CrossEncoderReranker {
	return &CrossEncoderReranker{
		service:  service,
		fallback: NewRRFReranker(),
		timeout:  DefaultRerankTimeout,
	}
}

// Rerank flattens all candidates (fusion deduplicates them first), scores
// them against the original query and sorts by relevance descending.
func (r *CrossEncoderReranker) Rerank(ctx context.Context, query string, lists [][]domain.ScoredChunk, weights []float64) []domain.ScoredChunk {
	fused := r.fallback.Rerank(ctx, query, lists, weights)
	if len(fused) == 0 {
		return fused
	}
	if r.service == nil {
		logger.Warn("Cross-encoder rerank skipped: %v (keeping fused order)", domain.ErrRerankUnavailable)
		return fused
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	documents := make([]string, len(fused))
	for i, sc := range fused {
		documents[i] = sc.Chunk.Text
	}

	scores, err := r.service.Rerank(ctx, query, documents)
	if err != nil || len(scores) != len(fused) {
		logger.Warn("Cross-encoder rerank failed: %v (falling back to RRF order)", err)
		return fused
	}

	reranked := make([]domain.ScoredChunk, len(fused))
	for i, sc := range fused {
		reranked[i] = domain.ScoredChunk{Chunk: sc.Chunk, Score: scores[i]}
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	logger.Debug("Cross-encoder rerank: %d candidates rescored", len(reranked))
	return reranked
}
