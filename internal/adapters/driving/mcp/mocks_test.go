package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/services"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	result domain.RetrieveResult
	corpus map[string][]domain.Chunk
	err    error

	lastQuery   domain.RetrieveQuery
	keywordOnly bool
}

func (m *mockRetriever) Retrieve(_ context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	m.lastQuery = q
	m.keywordOnly = false
	return m.result, m.err
}

func (m *mockRetriever) RetrieveBM25(_ context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	m.lastQuery = q
	m.keywordOnly = true
	return m.result, m.err
}

func (m *mockRetriever) GetChunk(_ context.Context, fileID string, index int) (domain.Chunk, error) {
	if m.err != nil {
		return domain.Chunk{}, m.err
	}
	chunks, ok := m.corpus[fileID]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	if index < 0 || index >= len(chunks) {
		return domain.Chunk{}, &domain.ChunkRangeError{FileID: fileID, Index: index, Count: len(chunks)}
	}
	return chunks[index], nil
}

func (m *mockRetriever) GetFileChunkCount(_ context.Context, fileID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	chunks, ok := m.corpus[fileID]
	if !ok {
		return 0, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return len(chunks), nil
}

func (m *mockRetriever) GetFileChunks(_ context.Context, fileID string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks, ok := m.corpus[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return chunks, nil
}

// testRegistry builds a one-language registry around a mock retriever.
func testRegistry(r *mockRetriever) *services.Registry {
	registry := services.NewRegistry()
	registry.Add(domain.LanguageEN, &services.Store{
		Retriever: r,
		Manifest: domain.NewManifest([]domain.ManifestEntry{
			{Category: domain.CategoryItem, Title: "Moonlight Sword", ID: 1, RelativePath: "items/moonlight_sword.txt"},
		}),
	})
	return registry
}
