// Package memory provides an in-memory corpus store for tests and
// ephemeral builds.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store is an in-memory implementation of driven.CorpusStore. Nothing
// survives the process; builds that need a checkpoint use the SQLite
// store instead.
type Store struct {
	mu      sync.RWMutex
	corpus  map[string][]domain.Chunk
	entries []domain.ManifestEntry
}

// NewStore creates a new empty in-memory corpus store.
func NewStore() *Store {
	return &Store{
		corpus: make(map[string][]domain.Chunk),
	}
}

// SaveChunks replaces the stored corpus.
func (s *Store) SaveChunks(_ context.Context, corpus map[string][]domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.corpus = make(map[string][]domain.Chunk, len(corpus))
	for fileID, chunks := range corpus {
		cp := make([]domain.Chunk, len(chunks))
		copy(cp, chunks)
		s.corpus[fileID] = cp
	}
	return nil
}

// LoadChunks restores the full corpus map.
func (s *Store) LoadChunks(_ context.Context) (map[string][]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.Chunk, len(s.corpus))
	for fileID, chunks := range s.corpus {
		cp := make([]domain.Chunk, len(chunks))
		copy(cp, chunks)
		out[fileID] = cp
	}
	return out, nil
}

// SaveManifest replaces the stored manifest entries.
func (s *Store) SaveManifest(_ context.Context, entries []domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]domain.ManifestEntry, len(entries))
	copy(s.entries, entries)
	return nil
}

// LoadManifest restores the manifest catalog.
func (s *Store) LoadManifest(_ context.Context) (*domain.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ManifestEntry, len(s.entries))
	copy(entries, s.entries)
	return domain.NewManifest(entries), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
