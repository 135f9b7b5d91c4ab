package services

import (
	"sort"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// ContextExpander turns a fused chunk ranking into per-file results,
// pulling in neighbouring chunks so a query returns full readable
// excerpts instead of isolated sentence fragments. Result breadth is
// bounded by file count, not raw chunk count.
type ContextExpander struct {
	corpus map[string][]domain.Chunk
}

// NewContextExpander creates an expander over the immutable corpus map.
func NewContextExpander(corpus map[string][]domain.Chunk) *ContextExpander {
	return &ContextExpander{corpus: corpus}
}

// fileWindow accumulates the accepted chunk indices of one file.
type fileWindow struct {
	fileID  string
	score   float64
	indices map[int]bool
}

// Expand walks the fused candidates in descending score order. Each
// candidate's window [index-window, index+window], clamped to the file
// bounds, is unioned into that file's accepted index set. The k-file
// admission limit is enforced strictly at first sight: once k files are
// accepted, seeing a chunk of a new file stops the walk.
func (e *ContextExpander) Expand(fused []domain.ScoredChunk, k, window int) domain.RetrieveResult {
	if k <= 0 || len(fused) == 0 {
		return domain.RetrieveResult{}
	}
	if window < 0 {
		window = 0
	}

	accepted := make(map[string]*fileWindow, k)
	var order []*fileWindow

	for _, sc := range fused {
		chunks, ok := e.corpus[sc.Chunk.FileID]
		if !ok || len(chunks) == 0 {
			// Indexed but absent from the corpus map. An integrity
			// problem, not a query error: log and keep going.
			logger.Warn("Fused chunk references unknown file %s", sc.Chunk.FileID)
			continue
		}
		if sc.Chunk.Index < 0 || sc.Chunk.Index >= len(chunks) {
			// Same integrity class: the index came from a backend whose
			// metadata disagrees with the corpus. Skip rather than admit
			// a file with nothing to show for it.
			logger.Warn("Fused chunk %s#%d is out of range (file has %d chunks)",
				sc.Chunk.FileID, sc.Chunk.Index, len(chunks))
			continue
		}

		fw, seen := accepted[sc.Chunk.FileID]
		if !seen {
			if len(order) == k {
				break
			}

			fw = &fileWindow{
				fileID:  sc.Chunk.FileID,
				score:   sc.Score,
				indices: make(map[int]bool),
			}
			accepted[sc.Chunk.FileID] = fw
			order = append(order, fw)
		}

		length := len(chunks)
		lo := sc.Chunk.Index - window
		if lo < 0 {
			lo = 0
		}
		hi := sc.Chunk.Index + window
		if hi > length-1 {
			hi = length - 1
		}
		for i := lo; i <= hi; i++ {
			fw.indices[i] = true
		}
	}

	// Files stay in first-seen order, which is best-score descending
	// because the input is walked in descending score order.
	result := make(domain.RetrieveResult, 0, len(order))
	for _, fw := range order {
		indices := make([]int, 0, len(fw.indices))
		for i := range fw.indices {
			indices = append(indices, i)
		}
		sort.Ints(indices)

		chunks := make([]domain.Chunk, 0, len(indices))
		file := e.corpus[fw.fileID]
		for _, i := range indices {
			chunks = append(chunks, file[i])
		}

		result = append(result, domain.FileResult{Score: fw.score, Chunks: chunks})
	}

	return result
}
