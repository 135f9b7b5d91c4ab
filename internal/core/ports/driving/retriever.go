package driving

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// Retriever turns a free-text query into a ranked, deduplicated,
// context-expanded set of document chunks, and resolves stable
// (file_id, chunk_index) references for citation display.
//
// Implementations: the in-process retrieval façade and the remote HTTP
// client. Both satisfy the identical contract so higher layers are
// deployment-mode-agnostic.
type Retriever interface {
	// Retrieve runs the full pipeline: query transformation, parallel
	// keyword+vector retrieval per variant, rank fusion, optional
	// reranking, and context expansion into per-file results.
	Retrieve(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error)

	// RetrieveBM25 is the keyword-only variant of Retrieve.
	RetrieveBM25(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error)

	// GetChunk resolves one chunk by its stable address. Returns
	// domain.ErrNotFound (wrapped) when the file is absent, and a
	// *domain.ChunkRangeError when the file exists but the index does not.
	GetChunk(ctx context.Context, fileID string, index int) (domain.Chunk, error)

	// GetFileChunkCount returns the number of chunks in a file, or
	// domain.ErrNotFound when the file is absent.
	GetFileChunkCount(ctx context.Context, fileID string) (int, error)

	// GetFileChunks returns a file's full chunk sequence in index order,
	// or domain.ErrNotFound when the file is absent.
	GetFileChunks(ctx context.Context, fileID string) ([]domain.Chunk, error)
}
