// Package cohere provides a rerank service adapter speaking the Cohere
// compatible /rerank API, also served by local cross-encoder gateways
// such as TEI and Jina.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure RerankService implements the interface.
var _ driven.RerankService = (*RerankService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.com/v2"
	DefaultModel   = "rerank-v3.5"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the rerank service.
type Config struct {
	// APIKey authenticates against the rerank endpoint. Optional for
	// local gateways.
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com/v2).
	BaseURL string

	// Model is the rerank model to use (default: rerank-v3.5).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// RerankService scores passages against a query with a cross-encoder.
type RerankService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// rerankRequest is the /rerank request format.
type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// rerankResponse is the /rerank response format.
type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Message string `json:"message,omitempty"`
}

// NewRerankService creates a new rerank service.
func NewRerankService(cfg Config) *RerankService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &RerankService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// Rerank returns one relevance score per document, parallel to the input
// slice. Higher is more relevant.
func (s *RerankService) Rerank(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Model:     s.model,
		Query:     query,
		Documents: documents,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if rerankResp.Message != "" {
			return nil, fmt.Errorf("rerank error (status %d): %s", resp.StatusCode, rerankResp.Message)
		}
		return nil, fmt.Errorf("rerank error (status %d): %s", resp.StatusCode, string(body))
	}

	// Responses come back sorted by relevance; restore input order so the
	// scores are parallel to documents.
	scores := make([]float64, len(documents))
	for _, r := range rerankResp.Results {
		if r.Index < 0 || r.Index >= len(scores) {
			return nil, fmt.Errorf("rerank: result index %d out of range", r.Index)
		}
		scores[r.Index] = r.RelevanceScore
	}

	return scores, nil
}

// ModelName returns the name of the rerank model being used.
func (s *RerankService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *RerankService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
