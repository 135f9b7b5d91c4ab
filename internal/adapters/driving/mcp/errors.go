// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Loreseek. It lets AI assistants query the lore corpus and resolve chunk
// citations.
package mcp

import "errors"

// ErrMissingRegistry is returned when no store registry is provided.
var ErrMissingRegistry = errors.New("mcp: store registry is required")
