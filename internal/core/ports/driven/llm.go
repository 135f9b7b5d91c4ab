package driven

import "context"

// QueryRewriter produces paraphrases of a search query for better recall.
// This is an optional service - when nil, retrieval uses the original
// query only. Rewriting is a best-effort quality improvement: failures
// must never fail the whole retrieval.
type QueryRewriter interface {
	// Rewrite returns up to n paraphrases of query. The original query
	// is NOT included in the returned slice; the transformer prepends it.
	Rewrite(ctx context.Context, query string, n int) ([]string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// RerankService scores candidate passages against a query with an
// external cross-encoder model. This is an optional service - when nil,
// fusion falls back to reciprocal rank fusion.
type RerankService interface {
	// Rerank returns one relevance score per document, parallel to the
	// input slice. Higher is more relevant.
	Rerank(ctx context.Context, query string, documents []string) ([]float64, error)

	// ModelName returns the name of the rerank model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
