package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Loreseek resources.
	uriScheme = "loreseek://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing served languages.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "languages",
		Name:        "languages",
		Description: "Languages the lore corpus is served in",
		MIMEType:    "application/json",
	}, s.handleLanguagesResource)

	// Template for per-language manifests.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "manifest/{language}",
		Name:        "manifest",
		Description: "Document catalog for one language",
		MIMEType:    "application/json",
	}, s.handleManifestResource)

	// Template for full file text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{language}/{fileId}",
		Name:        "file-content",
		Description: "Full text of one corpus file, chunks joined in order",
		MIMEType:    "text/plain",
	}, s.handleFileContentResource)
}

// handleLanguagesResource returns the served languages.
func (s *Server) handleLanguagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	langs := s.ports.Registry.Languages()

	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = string(l)
	}

	data, err := json.MarshalIndent(codes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling languages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleManifestResource returns the catalog for one language.
func (s *Server) handleManifestResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	lang := extractLanguage(req.Params.URI)
	if lang == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	store, err := s.ports.Registry.Get(domain.ParseLanguage(lang))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(store.Manifest.Entries(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling manifest: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFileContentResource returns one file's chunks joined in order.
func (s *Server) handleFileContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	lang, fileID := extractFileRef(req.Params.URI)
	if lang == "" || fileID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	store, err := s.ports.Registry.Get(domain.ParseLanguage(lang))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := store.Retriever.GetFileChunks(ctx, fileID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(texts, "\n\n"),
		}},
	}, nil
}

// extractLanguage extracts the language from a URI like
// loreseek://manifest/{language}.
func extractLanguage(uri string) string {
	const prefix = uriScheme + "manifest/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

// extractFileRef extracts language and file ID from a URI like
// loreseek://files/{language}/{fileId}.
func extractFileRef(uri string) (language, fileID string) {
	const prefix = uriScheme + "files/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return "", ""
	}

	return parts[0], parts[1]
}
