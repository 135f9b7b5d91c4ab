// Package openai provides a query rewriter backed by an OpenAI-compatible
// chat completion API.
package openai

import (
	"context"
	"fmt"
	"strings"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure QueryRewriter implements the interface.
var _ driven.QueryRewriter = (*QueryRewriter)(nil)

// Default configuration values.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 200
)

const rewriteSystemPrompt = `You rewrite search queries over a game lore corpus to improve recall.
Given a query, produce %d alternative phrasings: expand abbreviations, add synonyms for game terms, fix typos.
Return one rewrite per line with no numbering and no commentary.`

// Config holds configuration for the query rewriter.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for Azure OpenAI or
	// compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string
}

// QueryRewriter paraphrases queries via chat completion.
type QueryRewriter struct {
	client *gopenai.Client
	model  string
}

// NewQueryRewriter creates a new OpenAI query rewriter.
func NewQueryRewriter(cfg Config) (*QueryRewriter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrRewriteUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := gopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &QueryRewriter{
		client: gopenai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Rewrite returns up to n paraphrases of query, one per model output line.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Messages: []gopenai.ChatCompletionMessage{
			{
				Role:    gopenai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(rewriteSystemPrompt, n),
			},
			{
				Role:    gopenai.ChatMessageRoleUser,
				Content: query,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no response choices returned")
	}

	return parseVariants(resp.Choices[0].Message.Content, n), nil
}

// parseVariants extracts up to n non-empty lines from the model output.
func parseVariants(content string, n int) []string {
	var variants []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		variants = append(variants, line)
		if len(variants) == n {
			break
		}
	}
	return variants
}

// ModelName returns the name of the chat model being used.
func (r *QueryRewriter) ModelName() string {
	return r.model
}

// Close releases resources.
func (r *QueryRewriter) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
