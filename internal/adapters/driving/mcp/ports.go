package mcp

import (
	"github.com/custodia-labs/loreseek/internal/core/services"
)

// Ports aggregates everything the MCP server needs. This provides a
// single injection point for dependency injection.
type Ports struct {
	// Registry resolves per-language retrievers and manifests.
	Registry *services.Registry
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	return nil
}
