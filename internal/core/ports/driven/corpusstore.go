package driven

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// CorpusStore persists one language's chunk corpus and manifest.
// Backed by SQLite in the checkpoint directory.
//
// The {file_id -> ordered chunks} map it stores is the ground truth every
// other component works against; indexes only rank entries of this map.
type CorpusStore interface {
	// SaveChunks replaces the stored corpus with the given map.
	// Within each file, chunks must carry dense ascending indices 0..N-1.
	SaveChunks(ctx context.Context, corpus map[string][]domain.Chunk) error

	// LoadChunks restores the full corpus map. Chunk slices are ordered
	// ascending by index.
	LoadChunks(ctx context.Context) (map[string][]domain.Chunk, error)

	// SaveManifest replaces the stored manifest entries.
	SaveManifest(ctx context.Context, entries []domain.ManifestEntry) error

	// LoadManifest restores the manifest catalog.
	LoadManifest(ctx context.Context) (*domain.Manifest, error)

	// Close releases resources.
	Close() error
}
