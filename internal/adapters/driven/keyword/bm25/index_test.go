package bm25

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func foodCorpus() []domain.Chunk {
	texts := map[string]string{
		"apples":  "Apples are a crisp fruit grown in orchards. Many fruits ripen in autumn.",
		"bananas": "Bananas are soft yellow fruits rich in potassium.",
		"cherries": "Cherries are small stone fruits, sweet or sour.",
		"grapes":  "Grapes are vine fruits pressed into wine.",
		"mangoes": "Mangoes are tropical fruits with a large pit.",
		"pizza":   "Pizza is a savoury flatbread baked with cheese.",
		"coffee":  "Coffee is a brewed drink made from roasted beans.",
		"music":   "Music is the art of arranging sound in time.",
	}
	var chunks []domain.Chunk
	for name, text := range texts {
		chunks = append(chunks, domain.Chunk{
			FileID: name,
			Index:  0,
			Text:   text,
			Path:   name + ".txt",
		})
	}
	return chunks
}

func TestSearchRanksFruitDocumentsFirst(t *testing.T) {
	idx := New(false)
	require.NoError(t, idx.Build(context.Background(), foodCorpus()))

	hits, err := idx.Search(context.Background(), "fruits", 5)
	require.NoError(t, err)
	require.Len(t, hits, 5)

	fruity := map[string]bool{
		"apples": true, "bananas": true, "cherries": true,
		"grapes": true, "mangoes": true,
	}
	for _, hit := range hits {
		assert.True(t, fruity[hit.Chunk.FileID],
			"%s ranked ahead of fruit documents", hit.Chunk.FileID)
	}
}

func TestSearchReturnsMinKCorpusSize(t *testing.T) {
	idx := New(false)
	require.NoError(t, idx.Build(context.Background(), foodCorpus()))
	ctx := context.Background()

	hits, err := idx.Search(ctx, "the", 100)
	require.NoError(t, err)
	assert.Len(t, hits, 8, "k beyond the corpus returns every chunk")

	// "fruit" (singular) appears in one document only; the other four
	// slots are filled with zero-score chunks.
	hits, err = idx.Search(ctx, "fruit", 5)
	require.NoError(t, err)
	require.Len(t, hits, 5)
	assert.Equal(t, "apples", hits[0].Chunk.FileID)
	assert.Greater(t, hits[0].Score, 0.0)
	for _, hit := range hits[1:] {
		assert.Zero(t, hit.Score)
	}

	hits, err = idx.Search(ctx, "fruit", 0)
	require.NoError(t, err)
	assert.Empty(t, hits, "k=0 returns an empty list")
}

func TestSearchScoresDescend(t *testing.T) {
	idx := New(false)
	require.NoError(t, idx.Build(context.Background(), foodCorpus()))

	hits, err := idx.Search(context.Background(), "sweet sour cherries", 8)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "cherries", hits[0].Chunk.FileID)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := New(false)
	require.NoError(t, idx.Build(context.Background(), foodCorpus()))

	hits, err := idx.Search(context.Background(), "zzzquux", 5)
	require.NoError(t, err)
	require.Len(t, hits, 5, "unmatched queries still fill k slots")
	for _, hit := range hits {
		assert.Zero(t, hit.Score)
	}
}

func TestBuildEmptyCorpusFails(t *testing.T) {
	idx := New(false)
	err := idx.Build(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestSearchBeforeBuildReturnsEmpty(t *testing.T) {
	idx := New(false)
	hits, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	idx := New(true)
	require.NoError(t, idx.Build(context.Background(), foodCorpus()))

	path := filepath.Join(t.TempDir(), "keyword.idx")
	require.NoError(t, idx.Save(path))

	loaded := New(false)
	require.NoError(t, loaded.Load(path))
	assert.True(t, loaded.segmentCJK, "tokenizer mode restored from the artifact")

	want, err := idx.Search(context.Background(), "fruit", 3)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), "fruit", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
