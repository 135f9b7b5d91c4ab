// Package domain defines the core business entities for Loreseek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A contiguous slice of one source document, the atomic
//     retrieval unit, addressed by (FileID, Index)
//   - ScoredChunk: A chunk with a retriever-local score
//   - RetrieveResult: Per-file ranked retrieval output
//   - Manifest: Per-language catalog of corpus documents
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
