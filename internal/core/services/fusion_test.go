package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func ranked(texts ...string) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(texts))
	for i, txt := range texts {
		out[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{FileID: "f", Index: i, Text: txt},
			Score: float64(len(texts) - i),
		}
	}
	return out
}

func TestFuseSingleListPreservesOrder(t *testing.T) {
	f := NewFusionEngine()
	list := ranked("a", "b", "c", "d")

	fused := f.Fuse([][]domain.ScoredChunk{list}, []float64{1})

	require.Len(t, fused, 4)
	for i, sc := range fused {
		assert.Equal(t, list[i].Chunk.Text, sc.Chunk.Text)
	}
}

func TestFuseSameListTwiceDoublesScore(t *testing.T) {
	f := NewFusionEngine()
	list := ranked("a", "b")

	once := f.Fuse([][]domain.ScoredChunk{list}, []float64{1})
	twice := f.Fuse([][]domain.ScoredChunk{list, list}, []float64{1, 1})

	require.Len(t, twice, 2)
	assert.InDelta(t, once[0].Score*2, twice[0].Score, 1e-12)
}

func TestFuseMergesByContentIdentity(t *testing.T) {
	f := NewFusionEngine()

	// Two retrievers surface the same text from different positions;
	// the first-seen chunk wins, the scores accumulate.
	keyword := []domain.ScoredChunk{
		{Chunk: domain.Chunk{FileID: "f1", Index: 2, Text: "shared text"}, Score: 9},
	}
	vector := []domain.ScoredChunk{
		{Chunk: domain.Chunk{FileID: "f2", Index: 5, Text: "shared text"}, Score: 0.8},
		{Chunk: domain.Chunk{FileID: "f2", Index: 6, Text: "other"}, Score: 0.5},
	}

	fused := f.Fuse([][]domain.ScoredChunk{keyword, vector}, []float64{0.5, 0.5})

	require.Len(t, fused, 2)
	assert.Equal(t, "shared text", fused[0].Chunk.Text)
	assert.Equal(t, "f1", fused[0].Chunk.FileID, "first-seen chunk object is kept")

	individual := 0.5 / float64(RRFConstant+1)
	assert.GreaterOrEqual(t, fused[0].Score, individual)
	assert.InDelta(t, 2*individual, fused[0].Score, 1e-12)
}

func TestFuseWeightsScaleContributions(t *testing.T) {
	f := NewFusionEngine()
	a := ranked("a")
	b := ranked("b")

	fused := f.Fuse([][]domain.ScoredChunk{a, b}, []float64{1, 0.1})

	require.Len(t, fused, 2)
	assert.Equal(t, "a", fused[0].Chunk.Text)
	assert.InDelta(t, 10*fused[1].Score, fused[0].Score, 1e-12)
}

func TestFuseMissingWeightDefaultsToOne(t *testing.T) {
	f := NewFusionEngine()
	a := ranked("a")
	b := ranked("b")

	fused := f.Fuse([][]domain.ScoredChunk{a, b}, nil)

	require.Len(t, fused, 2)
	assert.InDelta(t, fused[0].Score, fused[1].Score, 1e-12)
}

func TestFuseEmptyInput(t *testing.T) {
	f := NewFusionEngine()
	assert.Empty(t, f.Fuse(nil, nil))
	assert.Empty(t, f.Fuse([][]domain.ScoredChunk{{}, {}}, []float64{1, 1}))
}

func TestFuseTotalWeightMassAcrossVariants(t *testing.T) {
	// Three variants, keyword+vector each: weights 1/3 split in half.
	f := NewFusionEngine()

	lists := make([][]domain.ScoredChunk, 6)
	weights := make([]float64, 6)
	for i := range lists {
		lists[i] = ranked("only")
		weights[i] = 1.0 / 3.0 / 2.0
	}

	var mass float64
	for _, w := range weights {
		mass += w
	}
	assert.InDelta(t, 1.0, mass, 1e-12)

	fused := f.Fuse(lists, weights)
	require.Len(t, fused, 1)
	// One document at rank 1 everywhere accumulates exactly mass/(K+1).
	assert.InDelta(t, 1.0/float64(RRFConstant+1), fused[0].Score, 1e-12)
}
