package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Chunk and file lookups return this as a sentinel, never a panic,
	// so callers can distinguish "file missing" from "index out of range".
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedOperation indicates a backend does not implement an
	// operation (e.g. build on a remote vector backend whose data
	// lifecycle is owned by another process). Fails fast, never no-ops.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrEmptyCorpus indicates an index build was attempted over zero
	// chunks. Lexical statistics cannot be normalised over zero
	// documents, so this is a fatal configuration error at build time.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector/semantic retrieval is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRewriteUnavailable indicates the query rewriter is not
	// configured. Retrieval degrades to the identity transform.
	ErrRewriteUnavailable = errors.New("query rewriter unavailable")

	// ErrRerankUnavailable indicates the external rerank service is not
	// configured. Fusion falls back to reciprocal rank fusion.
	ErrRerankUnavailable = errors.New("rerank service unavailable")
)

// UnknownLanguageError is returned by the registry for a language it does
// not serve. It enumerates the served languages so callers can surface a
// precise configuration error instead of a generic key miss.
type UnknownLanguageError struct {
	Language Language
	Known    []Language
}

// Error implements the error interface.
func (e *UnknownLanguageError) Error() string {
	known := make([]string, len(e.Known))
	for i, l := range e.Known {
		known[i] = string(l)
	}
	return fmt.Sprintf("unknown language %q (available: %s)",
		e.Language, strings.Join(known, ", "))
}

// ChunkRangeError is returned when a file exists but the requested chunk
// index is outside its dense 0..N-1 range.
type ChunkRangeError struct {
	FileID string
	Index  int
	Count  int
}

// Error implements the error interface.
func (e *ChunkRangeError) Error() string {
	return fmt.Sprintf("chunk index %d out of range for file %s (0..%d)",
		e.Index, e.FileID, e.Count-1)
}

// Unwrap lets errors.Is(err, ErrNotFound) match range errors too.
func (e *ChunkRangeError) Unwrap() error {
	return ErrNotFound
}
