// Package remote provides HTTP clients for a retrieval service speaking
// the wire protocol: a full Retriever for remote deployment mode, and a
// VectorIndex backend that delegates similarity search to the service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/loreseek/internal/core/domain"
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	apiPrefix = "/api/v1"
)

// Config holds configuration for a remote retrieval client.
type Config struct {
	// BaseURL is the retrieval service address (required).
	BaseURL string

	// Language selects the per-language store on the server (required).
	Language domain.Language

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client issues wire-protocol requests against one retrieval service.
type Client struct {
	client   *http.Client
	baseURL  string
	language domain.Language
}

// NewClient creates a remote retrieval client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: base URL is required")
	}
	if cfg.Language == "" {
		return nil, fmt.Errorf("remote: language is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
	}, nil
}

// Language returns the per-language store this client is bound to.
func (c *Client) Language() domain.Language {
	return c.language
}

// Retrieve runs a full hybrid retrieval on the server.
func (c *Client) Retrieve(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	return c.retrieve(ctx, apiPrefix+"/retrieve", q)
}

// RetrieveBM25 runs a keyword-only retrieval on the server.
func (c *Client) RetrieveBM25(ctx context.Context, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	return c.retrieve(ctx, apiPrefix+"/retrieve/bm25", q)
}

func (c *Client) retrieve(ctx context.Context, path string, q domain.RetrieveQuery) (domain.RetrieveResult, error) {
	reqBody := domain.RetrieveRequest{
		Language:     string(c.language),
		Query:        q.Query,
		K:            q.K,
		ChunkContext: q.ChunkContext,
	}

	var resp domain.RetrieveResponse
	if err := c.post(ctx, path, reqBody, &resp); err != nil {
		return nil, err
	}

	return domain.FromWire(resp), nil
}

// FileChunks fetches a file's full chunk sequence.
func (c *Client) FileChunks(ctx context.Context, fileID string) ([]domain.Chunk, error) {
	path := fmt.Sprintf("%s/chunks/%s/%s",
		apiPrefix, url.PathEscape(string(c.language)), url.PathEscape(fileID))

	var resp domain.ChunksResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, len(resp.Chunks))
	for i, d := range resp.Chunks {
		chunks[i] = domain.Chunk{
			FileID: d.Metadata.FileID,
			Index:  d.Metadata.ChunkIndex,
			Text:   d.Content,
			Path:   d.Metadata.Path,
		}
	}

	return chunks, nil
}

// Manifest fetches the per-language manifest, typically once at startup.
func (c *Client) Manifest(ctx context.Context) (*domain.Manifest, error) {
	path := apiPrefix + "/manifest/" + url.PathEscape(string(c.language))

	var entries []domain.ManifestEntry
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}

	return domain.NewManifest(entries), nil
}

// Languages enumerates the languages the server holds stores for.
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	var resp domain.LanguagesResponse
	if err := c.get(ctx, apiPrefix+"/languages", &resp); err != nil {
		return nil, err
	}

	langs := make([]domain.Language, len(resp.Languages))
	for i, l := range resp.Languages {
		langs[i] = domain.Language(l)
	}

	return langs, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return wireStatusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// wireStatusError turns a non-200 response into an error, preserving the
// sentinel for 404 so callers can test with errors.Is.
func wireStatusError(status int, body []byte) error {
	var we domain.WireError
	if err := json.Unmarshal(body, &we); err != nil || we.Error == "" {
		return fmt.Errorf("remote: server returned status %d: %s", status, string(body))
	}

	if status == http.StatusNotFound {
		if we.Value != "" {
			return fmt.Errorf("remote: %s (%s): %w", we.Error, we.Value, domain.ErrNotFound)
		}
		return fmt.Errorf("remote: %s: %w", we.Error, domain.ErrNotFound)
	}

	if we.Value != "" {
		return fmt.Errorf("remote: %s (%s)", we.Error, we.Value)
	}
	return fmt.Errorf("remote: %s", we.Error)
}
