// Package flat provides the embedded vector backend: an exact
// brute-force cosine-similarity index over chunk embeddings, persisted to
// disk. Exact search keeps the checkpoint format trivial and is fast
// enough at lore-corpus scale.
package flat

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// embedBatchSize bounds one embedding request during builds.
const embedBatchSize = 64

// Index holds one embedding per chunk. Scores are cosine similarity in
// [-1, 1], higher is closer; no conversion is needed before fusion.
type Index struct {
	embedder   driven.EmbeddingService
	chunks     []domain.Chunk
	embeddings [][]float32
}

// New creates an index backed by the given embedding service. The same
// model must produce both corpus and query vectors.
func New(embedder driven.EmbeddingService) *Index {
	return &Index{embedder: embedder}
}

// Build embeds the full chunk corpus in batches.
func (idx *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("building vector index: %w", domain.ErrEmptyCorpus)
	}
	if idx.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i, c := range chunks[start:end] {
			texts[i] = c.Text
		}

		batch, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return fmt.Errorf("embedding chunks %d-%d: got %d vectors for %d texts",
				start, end-1, len(batch), len(texts))
		}
		embeddings = append(embeddings, batch...)

		logger.Debug("Embedded %d/%d chunk(s)", end, len(chunks))
	}

	idx.chunks = chunks
	idx.embeddings = embeddings
	return nil
}

// Search embeds the query and returns the k most similar chunks.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}
	if idx.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	type scored struct {
		doc   int
		score float64
	}
	results := make([]scored, 0, len(idx.chunks))
	for i, vec := range idx.embeddings {
		results = append(results, scored{doc: i, score: cosineSimilarity(queryVec, vec)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].doc < results[j].doc
	})

	if len(results) > k {
		results = results[:k]
	}

	hits := make([]domain.ScoredChunk, len(results))
	for i, r := range results {
		hits[i] = domain.ScoredChunk{Chunk: idx.chunks[r.doc], Score: r.score}
	}
	return hits, nil
}

// artifact is the gob-persisted form of the index.
type artifact struct {
	Chunks     []domain.Chunk
	Embeddings [][]float32
}

// Save persists the index artifact to path.
func (idx *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating vector artifact: %w", err)
	}
	defer f.Close()

	art := artifact{Chunks: idx.chunks, Embeddings: idx.embeddings}
	if err := gob.NewEncoder(f).Encode(&art); err != nil {
		return fmt.Errorf("encoding vector artifact: %w", err)
	}
	return nil
}

// Load restores the index artifact from path.
func (idx *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening vector artifact: %w", err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return fmt.Errorf("decoding vector artifact: %w", err)
	}
	if len(art.Chunks) != len(art.Embeddings) {
		return fmt.Errorf("vector artifact %s: %d chunks but %d embeddings",
			path, len(art.Chunks), len(art.Embeddings))
	}

	idx.chunks = art.Chunks
	idx.embeddings = art.Embeddings
	return nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the dimensions differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
