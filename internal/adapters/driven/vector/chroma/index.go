// Package chroma provides the external-index vector backend: the
// similarity index lives in a long-running Chroma server and this adapter
// only queries it. Build, Save and Load are unsupported because the data
// lifecycle is owned by that process.
package chroma

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Metadata attribute keys carried on every document in the collection.
// The ingestion side must write the same keys or chunks cannot be
// addressed for citation.
const (
	MetaFileID     = "file_id"
	MetaChunkIndex = "chunk_index"
	MetaPath       = "path"
)

// Config holds configuration for the Chroma backend.
type Config struct {
	// BaseURL is the Chroma server address (e.g. http://localhost:8000).
	BaseURL string

	// Collection is the per-language collection name.
	Collection string

	// EmbeddingFunc lets the server-side collection embed query texts.
	EmbeddingFunc embeddings.EmbeddingFunction
}

// Index queries one per-language Chroma collection.
type Index struct {
	col chroma.Collection
}

// New connects to the Chroma server and opens the collection.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("chroma: base URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("chroma: collection name is required")
	}

	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("chroma: creating client: %w", err)
	}

	var opts []chroma.CreateCollectionOption
	if cfg.EmbeddingFunc != nil {
		opts = append(opts, chroma.WithEmbeddingFunctionCreate(cfg.EmbeddingFunc))
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection, opts...)
	if err != nil {
		return nil, fmt.Errorf("chroma: opening collection %s: %w", cfg.Collection, err)
	}

	return &Index{col: col}, nil
}

// Build is unsupported: the collection is populated by the process that
// owns it.
func (idx *Index) Build(_ context.Context, _ []domain.Chunk) error {
	return fmt.Errorf("chroma backend build: %w", domain.ErrUnsupportedOperation)
}

// Save is unsupported on this backend.
func (idx *Index) Save(_ string) error {
	return fmt.Errorf("chroma backend save: %w", domain.ErrUnsupportedOperation)
}

// Load is unsupported on this backend.
func (idx *Index) Load(_ string) error {
	return fmt.Errorf("chroma backend load: %w", domain.ErrUnsupportedOperation)
}

// Search queries the collection. Chroma reports distances
// (lower-is-closer); they are converted to 1/(1+distance) so every
// vector backend hands higher-is-better scores to fusion.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	r, err := idx.col.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("chroma query: %w", err)
	}

	docGroups := r.GetDocumentsGroups()
	metaGroups := r.GetMetadatasGroups()
	distGroups := r.GetDistancesGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}

	docs := docGroups[0]
	metadatas := metaGroups[0]
	distances := distGroups[0]

	hits := make([]domain.ScoredChunk, 0, len(docs))
	for i := range docs {
		fileID, _ := metadatas[i].GetString(MetaFileID)
		index, _ := metadatas[i].GetInt(MetaChunkIndex)
		path, _ := metadatas[i].GetString(MetaPath)

		hits = append(hits, domain.ScoredChunk{
			Chunk: domain.Chunk{
				FileID: fileID,
				Index:  int(index),
				Text:   docs[i].ContentString(),
				Path:   path,
			},
			Score: 1 / (1 + float64(distances[i])),
		})
	}

	return hits, nil
}
