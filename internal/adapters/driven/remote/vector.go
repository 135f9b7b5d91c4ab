package remote

import (
	"context"
	"fmt"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex delegates similarity search to the retrieval service. It
// requests results without context expansion and flattens them into the
// flat ranked list the fusion layer expects, so a remote leg plugs into
// the hybrid pipeline like any local backend.
type VectorIndex struct {
	client *Client
}

// NewVectorIndex creates a remote vector backend over an existing client.
func NewVectorIndex(client *Client) *VectorIndex {
	return &VectorIndex{client: client}
}

// Build is unsupported: the server owns the store.
func (v *VectorIndex) Build(_ context.Context, _ []domain.Chunk) error {
	return fmt.Errorf("remote backend build: %w", domain.ErrUnsupportedOperation)
}

// Save is unsupported on this backend.
func (v *VectorIndex) Save(_ string) error {
	return fmt.Errorf("remote backend save: %w", domain.ErrUnsupportedOperation)
}

// Load is unsupported on this backend.
func (v *VectorIndex) Load(_ string) error {
	return fmt.Errorf("remote backend load: %w", domain.ErrUnsupportedOperation)
}

// Search queries the service and flattens per-file results into scored
// chunks in rank order. Chunks inherit their file's score.
func (v *VectorIndex) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	result, err := v.client.Retrieve(ctx, domain.RetrieveQuery{
		Query:        query,
		K:            k,
		ChunkContext: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("remote search: %w", err)
	}

	var hits []domain.ScoredChunk
	for _, fr := range result {
		for _, c := range fr.Chunks {
			hits = append(hits, domain.ScoredChunk{Chunk: c, Score: fr.Score})
			if len(hits) == k {
				return hits, nil
			}
		}
	}

	return hits, nil
}
