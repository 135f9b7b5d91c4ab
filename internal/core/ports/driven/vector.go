package driven

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// VectorIndex provides nearest-neighbour ranking over chunk embeddings.
//
// Three interchangeable backends implement it:
//
//   - flat: an embedded cosine-similarity index, persisted to disk
//   - chroma: a collection in a long-running external index server;
//     Build/Save/Load return domain.ErrUnsupportedOperation because the
//     data lifecycle is owned by that process
//   - remote: no local index or embeddings at all; every call is a
//     network request to a retrieval service owning the whole store
//
// All backends return scores normalised to higher-is-better similarity,
// so fused ranks and raw-score display agree on direction.
type VectorIndex interface {
	// Build embeds the full chunk corpus and constructs the index.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Search returns the k nearest chunks to the query text.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// Save persists the index artifact to path.
	Save(path string) error

	// Load restores the index artifact from path.
	Load(path string) error
}
