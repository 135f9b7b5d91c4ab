package chroma

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

func TestBuildUnsupported(t *testing.T) {
	idx := &Index{}

	err := idx.Build(context.Background(), []domain.Chunk{{Text: "hello"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestSaveLoadUnsupported(t *testing.T) {
	idx := &Index{}

	assert.ErrorIs(t, idx.Save("out.idx"), domain.ErrUnsupportedOperation)
	assert.ErrorIs(t, idx.Load("out.idx"), domain.ErrUnsupportedOperation)
}

func TestNewRequiresConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Collection: "lore_en"})
	assert.Error(t, err)

	_, err = New(ctx, Config{BaseURL: "http://localhost:8000"})
	assert.Error(t, err)
}
