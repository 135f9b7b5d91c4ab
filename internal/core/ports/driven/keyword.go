package driven

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// KeywordIndex provides lexical BM25 ranking over one language's chunk
// corpus. Scores are BM25 relevance, higher is better.
//
// The index is built once by the offline corpus builder and read-only in
// a serving process.
type KeywordIndex interface {
	// Build constructs the index over the full chunk corpus.
	// Building over zero chunks returns domain.ErrEmptyCorpus: lexical
	// statistics cannot be normalised over zero documents.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Search returns the k highest-scoring chunks for the query, or all
	// chunks when the corpus is smaller than k. k <= 0 returns empty.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// Save persists the index artifact to path.
	Save(path string) error

	// Load restores the index artifact from path.
	Load(path string) error
}
