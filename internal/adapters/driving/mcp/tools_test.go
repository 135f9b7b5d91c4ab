package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns results with manifest identity", func(t *testing.T) {
		mockR := &mockRetriever{
			result: domain.RetrieveResult{
				{
					Score: 0.031,
					Chunks: []domain.Chunk{
						{FileID: "file-a", Index: 2, Text: "The blade glows at night.", Path: "items/moonlight_sword.txt"},
						{FileID: "file-a", Index: 3, Text: "Forged under a full moon.", Path: "items/moonlight_sword.txt"},
					},
				},
			},
		}

		server, err := NewServer(&Ports{Registry: testRegistry(mockR)})
		require.NoError(t, err)

		input := RetrieveInput{Language: "en", Query: "moonlight sword", K: 5}
		_, output, err := server.handleRetrieve(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)

		fr := output.Results[0]
		assert.Equal(t, "file-a", fr.FileID)
		assert.Equal(t, "items/moonlight_sword.txt", fr.Path)
		assert.Equal(t, "Moonlight Sword", fr.Title)
		assert.Equal(t, "item", fr.Category)
		assert.Equal(t, 0.031, fr.Score)
		require.Len(t, fr.Chunks, 2)
		assert.Equal(t, 2, fr.Chunks[0].ChunkIndex)
	})

	t.Run("keyword only routes to bm25", func(t *testing.T) {
		mockR := &mockRetriever{}
		server, err := NewServer(&Ports{Registry: testRegistry(mockR)})
		require.NoError(t, err)

		input := RetrieveInput{Language: "en", Query: "moonlight", KeywordOnly: true}
		_, _, err = server.handleRetrieve(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, mockR.keywordOnly)
	})

	t.Run("unknown language returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Registry: testRegistry(&mockRetriever{})})
		require.NoError(t, err)

		input := RetrieveInput{Language: "fr", Query: "moonlight"}
		_, _, err = server.handleRetrieve(ctx, nil, input)

		require.Error(t, err)
		var unknownErr *domain.UnknownLanguageError
		assert.True(t, errors.As(err, &unknownErr))
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockR := &mockRetriever{err: errors.New("retrieval failed")}
		server, err := NewServer(&Ports{Registry: testRegistry(mockR)})
		require.NoError(t, err)

		input := RetrieveInput{Language: "en", Query: "moonlight"}
		_, _, err = server.handleRetrieve(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "retrieval failed")
	})
}

func TestServer_handleGetChunk(t *testing.T) {
	ctx := context.Background()

	corpus := map[string][]domain.Chunk{
		"file-a": {
			{FileID: "file-a", Index: 0, Text: "first", Path: "items/moonlight_sword.txt"},
			{FileID: "file-a", Index: 1, Text: "second", Path: "items/moonlight_sword.txt"},
		},
	}

	t.Run("resolves citation", func(t *testing.T) {
		server, err := NewServer(&Ports{Registry: testRegistry(&mockRetriever{corpus: corpus})})
		require.NoError(t, err)

		input := GetChunkInput{Language: "en", FileID: "file-a", ChunkIndex: 1}
		_, output, err := server.handleGetChunk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "second", output.Text)
		assert.Equal(t, 1, output.ChunkIndex)
		assert.Equal(t, 2, output.ChunkCount)
		assert.Equal(t, "items/moonlight_sword.txt", output.Path)
	})

	t.Run("missing file returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Registry: testRegistry(&mockRetriever{corpus: corpus})})
		require.NoError(t, err)

		input := GetChunkInput{Language: "en", FileID: "missing", ChunkIndex: 0}
		_, _, err = server.handleGetChunk(ctx, nil, input)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("out of range index reports range", func(t *testing.T) {
		server, err := NewServer(&Ports{Registry: testRegistry(&mockRetriever{corpus: corpus})})
		require.NoError(t, err)

		input := GetChunkInput{Language: "en", FileID: "file-a", ChunkIndex: 9}
		_, _, err = server.handleGetChunk(ctx, nil, input)

		require.Error(t, err)
		var rangeErr *domain.ChunkRangeError
		assert.True(t, errors.As(err, &rangeErr))
	})
}
