package services

import (
	"sort"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// RRFConstant is the K in the reciprocal rank formula weight/(K+rank).
// 60 is the value from the original RRF paper; it keeps top ranks from
// dominating the fused score.
const RRFConstant = 60

// FusionEngine combines ranked lists from multiple retrievers and query
// variants into one list using Reciprocal Rank Fusion.
//
// Documents are identified by content equality of the chunk text, not by
// (file_id, chunk_index): identical text surfaced by two retrievers
// merges into one entry, keeping the first-seen Chunk. Two distinct
// chunks that happen to share identical text will therefore merge too;
// that is a known, accepted limitation.
type FusionEngine struct {
	k int
}

// NewFusionEngine creates a fusion engine with the standard RRF constant.
func NewFusionEngine() *FusionEngine {
	return &FusionEngine{k: RRFConstant}
}

// fusedEntry tracks one deduplicated document during fusion.
type fusedEntry struct {
	chunk domain.Chunk
	score float64
	order int // first-seen position, for a deterministic tie-break
}

// Fuse merges the ranked lists into one list sorted by accumulated RRF
// score, highest first. weights is parallel to lists; a missing weight
// defaults to 1. A document at 1-based rank r in list i contributes
// weights[i] / (K + r).
func (f *FusionEngine) Fuse(lists [][]domain.ScoredChunk, weights []float64) []domain.ScoredChunk {
	entries := make(map[string]*fusedEntry)
	order := 0

	for i, list := range lists {
		weight := 1.0
		if i < len(weights) {
			weight = weights[i]
		}

		for rank, sc := range list {
			contribution := weight / float64(f.k+rank+1)

			key := sc.Chunk.Text
			entry, ok := entries[key]
			if !ok {
				entry = &fusedEntry{chunk: sc.Chunk, order: order}
				entries[key] = entry
				order++
			}
			entry.score += contribution
		}
	}

	fused := make([]domain.ScoredChunk, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, domain.ScoredChunk{Chunk: e.chunk, Score: e.score})
	}

	// Ties resolve to first-seen order so fusion output is deterministic.
	orderOf := func(sc domain.ScoredChunk) int {
		return entries[sc.Chunk.Text].order
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return orderOf(fused[i]) < orderOf(fused[j])
	})

	return fused
}
