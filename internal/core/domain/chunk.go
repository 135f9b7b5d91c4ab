package domain

// Chunk is the atomic retrieval unit: a contiguous slice of one source
// document's text.
type Chunk struct {
	// FileID is the opaque identifier of the source document.
	// It is stable within one corpus build but not across rebuilds.
	FileID string

	// Index is the zero-based position within the file's chunk sequence.
	// Within one file, indices form a dense 0..N-1 range with no gaps.
	Index int

	// Text is the chunk content.
	Text string

	// Path is the corpus-relative path of the source document,
	// used to look up manifest metadata for citation display.
	Path string
}

// ScoredChunk pairs a chunk with a retriever-local score.
// Scores are not comparable across retrievers before fusion.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrieveQuery describes one retrieval request.
type RetrieveQuery struct {
	// Query is the free-text user query.
	Query string

	// K bounds the number of distinct files returned, not chunks.
	K int

	// ChunkContext is the +/- window of neighbouring chunks pulled in
	// around each match.
	ChunkContext int
}

// FileResult is one retrieval result: all accepted chunks of a single file,
// sorted ascending by chunk index. Score is the best fused score among the
// file's matched chunks.
type FileResult struct {
	Score  float64
	Chunks []Chunk
}

// RetrieveResult is an ordered list of per-file results, best file first.
// An empty result set is an empty slice, never an error.
type RetrieveResult []FileResult
