package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// QueryTransformer expands one user query into a small set of query
// variants used to diversify retrieval recall.
//
// Contract: the first element of the returned slice is always the input
// query. Downstream components rely on this.
type QueryTransformer interface {
	Transform(ctx context.Context, query string) []string
}

// IdentityTransformer returns the query unchanged as the only variant.
type IdentityTransformer struct{}

// Ensure IdentityTransformer implements the interface.
var _ QueryTransformer = IdentityTransformer{}

// Transform returns a single-element slice holding the input query.
func (IdentityTransformer) Transform(_ context.Context, query string) []string {
	return []string{query}
}

// DefaultRewriteVariants is the number of paraphrases requested from the
// rewriter in addition to the original query.
const DefaultRewriteVariants = 2

// DefaultRewriteTimeout bounds the rewrite call. Rewriting is a
// best-effort quality improvement, never a correctness dependency, so the
// budget is deliberately tight.
const DefaultRewriteTimeout = 10 * time.Second

// LLMTransformer asks a language model for paraphrases of the query.
// On any failure (timeout, malformed output, empty result) it falls back
// to the identity behaviour rather than failing the retrieval.
type LLMTransformer struct {
	rewriter driven.QueryRewriter
	variants int
	timeout  time.Duration
}

// Ensure LLMTransformer implements the interface.
var _ QueryTransformer = (*LLMTransformer)(nil)

// NewLLMTransformer creates a transformer producing up to variants extra
// paraphrases. variants <= 0 uses DefaultRewriteVariants.
func NewLLMTransformer(rewriter driven.QueryRewriter, variants int) *LLMTransformer {
	if variants <= 0 {
		variants = DefaultRewriteVariants
	}
	return &LLMTransformer{
		rewriter: rewriter,
		variants: variants,
		timeout:  DefaultRewriteTimeout,
	}
}

// Transform returns the original query followed by deduplicated
// paraphrases.
func (t *LLMTransformer) Transform(ctx context.Context, query string) []string {
	out := []string{query}
	if t.rewriter == nil {
		logger.Warn("Query rewrite skipped: %v", domain.ErrRewriteUnavailable)
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	rewrites, err := t.rewriter.Rewrite(ctx, query, t.variants)
	if err != nil {
		logger.Warn("Query rewrite failed: %v (using original query only)", err)
		return out
	}

	seen := map[string]bool{normaliseVariant(query): true}
	for _, v := range rewrites {
		v = strings.TrimSpace(v)
		if v == "" || seen[normaliseVariant(v)] {
			continue
		}
		seen[normaliseVariant(v)] = true
		out = append(out, v)
		if len(out) > t.variants {
			break
		}
	}

	logger.Debug("Query rewrite: %d variant(s) for %q", len(out)-1, query)
	return out
}

func normaliseVariant(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
