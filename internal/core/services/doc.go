// Package services implements the retrieval pipeline behind the driving
// port interfaces: query transformation, reciprocal rank fusion,
// reranking, context expansion, the retriever facade, the per-language
// store registry and the offline corpus builder.
//
// Services contain the core business logic and orchestrate calls to
// driven ports (adapters). They are pure Go with no external dependencies
// beyond ports, domain and the logger.
package services
