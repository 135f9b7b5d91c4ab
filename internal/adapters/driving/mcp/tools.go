package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Language     string `json:"language" jsonschema:"corpus language code (e.g. en, ja)"`
	Query        string `json:"query" jsonschema:"the lore question or phrase to search for"`
	K            int    `json:"k,omitempty" jsonschema:"maximum number of files to return (default 5)"`
	ChunkContext int    `json:"chunk_context,omitempty" jsonschema:"surrounding chunks to include per match (default 0)"`
	KeywordOnly  bool   `json:"keyword_only,omitempty" jsonschema:"skip semantic search and use keyword ranking only"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []FileResultOutput `json:"results"`
	Count   int                `json:"count"`
}

// FileResultOutput is one retrieved file with its matched passages.
type FileResultOutput struct {
	FileID   string        `json:"file_id"`
	Path     string        `json:"path"`
	Title    string        `json:"title,omitempty"`
	Category string        `json:"category,omitempty"`
	Score    float64       `json:"score"`
	Chunks   []ChunkOutput `json:"chunks"`
}

// ChunkOutput is one passage with its stable citation address.
type ChunkOutput struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// GetChunkInput is the input schema for the get_chunk tool.
type GetChunkInput struct {
	Language   string `json:"language" jsonschema:"corpus language code (e.g. en, ja)"`
	FileID     string `json:"file_id" jsonschema:"file identifier from a previous retrieve result"`
	ChunkIndex int    `json:"chunk_index" jsonschema:"zero-based chunk index within the file"`
}

// GetChunkOutput is the output schema for the get_chunk tool.
type GetChunkOutput struct {
	FileID     string `json:"file_id"`
	ChunkIndex int    `json:"chunk_index"`
	Path       string `json:"path"`
	Text       string `json:"text"`
	ChunkCount int    `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Search the game lore corpus and return matching passages grouped by file",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_chunk",
		Description: "Resolve a chunk citation to its full text",
	}, s.handleGetChunk)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	store, err := s.ports.Registry.Get(domain.ParseLanguage(input.Language))
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	if input.K <= 0 {
		input.K = 5
	}

	q := domain.RetrieveQuery{
		Query:        input.Query,
		K:            input.K,
		ChunkContext: input.ChunkContext,
	}

	var result domain.RetrieveResult
	if input.KeywordOnly {
		result, err = store.Retriever.RetrieveBM25(ctx, q)
	} else {
		result, err = store.Retriever.Retrieve(ctx, q)
	}
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]FileResultOutput, len(result)),
		Count:   len(result),
	}

	for i, fr := range result {
		out := FileResultOutput{
			Score:  fr.Score,
			Chunks: make([]ChunkOutput, len(fr.Chunks)),
		}
		if len(fr.Chunks) > 0 {
			out.FileID = fr.Chunks[0].FileID
			out.Path = fr.Chunks[0].Path
			if entry := store.Manifest.Lookup(out.Path); entry != nil {
				out.Title = entry.Title
				out.Category = string(entry.Category)
			}
		}
		for j, c := range fr.Chunks {
			out.Chunks[j] = ChunkOutput{
				ChunkIndex: c.Index,
				Text:       c.Text,
			}
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleGetChunk handles the get_chunk tool invocation.
func (s *Server) handleGetChunk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetChunkInput,
) (*mcp.CallToolResult, GetChunkOutput, error) {
	store, err := s.ports.Registry.Get(domain.ParseLanguage(input.Language))
	if err != nil {
		return nil, GetChunkOutput{}, err
	}

	chunk, err := store.Retriever.GetChunk(ctx, input.FileID, input.ChunkIndex)
	if err != nil {
		return nil, GetChunkOutput{}, err
	}

	count, err := store.Retriever.GetFileChunkCount(ctx, input.FileID)
	if err != nil {
		return nil, GetChunkOutput{}, err
	}

	return nil, GetChunkOutput{
		FileID:     chunk.FileID,
		ChunkIndex: chunk.Index,
		Path:       chunk.Path,
		Text:       chunk.Text,
		ChunkCount: count,
	}, nil
}
