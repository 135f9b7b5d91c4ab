package remote

import (
	"context"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driving"
)

// Ensure Retriever implements the interface.
var _ driving.Retriever = (*Retriever)(nil)

// Retriever satisfies the full retrieval contract over the wire protocol.
// Every call is a network request: the server owns the per-language store
// and this process holds no index data at all.
type Retriever struct {
	client *Client
}

// NewRetriever creates a remote-mode retriever.
func NewRetriever(client *Client) *Retriever {
	return &Retriever{client: client}
}

// Retrieve runs the full hybrid pipeline on the server.
func (r *Retriever) Retrieve(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	return r.client.Retrieve(ctx, q)
}

// RetrieveBM25 runs a keyword-only retrieval on the server.
func (r *Retriever) RetrieveBM25(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	return r.client.RetrieveBM25(ctx, q)
}

// GetChunk resolves one chunk by its stable address.
func (r *Retriever) GetChunk(ctx context.Context, fileID string, index int) (domain.Chunk, error) {
	chunks, err := r.client.FileChunks(ctx, fileID)
	if err != nil {
		return domain.Chunk{}, err
	}
	if index < 0 || index >= len(chunks) {
		return domain.Chunk{}, &domain.ChunkRangeError{
			FileID: fileID,
			Index:  index,
			Count:  len(chunks),
		}
	}
	return chunks[index], nil
}

// GetFileChunkCount returns the number of chunks in a file.
func (r *Retriever) GetFileChunkCount(ctx context.Context, fileID string) (int, error) {
	chunks, err := r.client.FileChunks(ctx, fileID)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// GetFileChunks returns a file's full chunk sequence in index order.
func (r *Retriever) GetFileChunks(ctx context.Context, fileID string) ([]domain.Chunk, error) {
	return r.client.FileChunks(ctx, fileID)
}
