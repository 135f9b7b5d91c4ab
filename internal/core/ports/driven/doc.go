// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the retrieval engine to function:
//
//   - KeywordIndex: Lexical BM25 ranking over the chunk corpus
//   - VectorIndex: Nearest-neighbour ranking over chunk embeddings
//     (flat local index, external Chroma collection, or remote service)
//   - CorpusStore: Chunk corpus and manifest checkpoint persistence
//
// # Optional Interfaces
//
// These can be nil - retrieval degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Required by the flat
//     vector backend; the Chroma and remote backends embed server-side.
//   - QueryRewriter: Produces query paraphrases. Without it, retrieval
//     uses the identity transform.
//   - RerankService: External cross-encoder scoring. Without it, fusion
//     falls back to reciprocal rank fusion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
