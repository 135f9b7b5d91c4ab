package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/loreseek/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil registry returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRegistry)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Registry: services.NewRegistry(),
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil registry returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingRegistry)
	})

	t.Run("registry is valid", func(t *testing.T) {
		ports := &Ports{
			Registry: services.NewRegistry(),
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
