package bm25

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.KeywordIndex = (*Index)(nil)

// BM25 parameters; the usual defaults.
const (
	k1 = 1.2
	b  = 0.75
)

// posting records one term occurrence count in one document.
type posting struct {
	Doc int
	TF  int
}

// Index is an in-process BM25 index over one language's chunks.
// Built once offline, read-only while serving; concurrent Search calls
// need no locking because nothing mutates after Build/Load.
type Index struct {
	tokenizer *Tokenizer

	segmentCJK bool
	chunks     []domain.Chunk
	postings   map[string][]posting
	docLen     []int
	avgLen     float64
}

// New creates an unbuilt index. segmentCJK selects the tokenizer's CJK
// bigram mode and is persisted with the artifact.
func New(segmentCJK bool) *Index {
	return &Index{
		tokenizer:  NewTokenizer(segmentCJK),
		segmentCJK: segmentCJK,
		postings:   make(map[string][]posting),
	}
}

// Build constructs the index over the full chunk corpus.
func (idx *Index) Build(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("building keyword index: %w", domain.ErrEmptyCorpus)
	}

	idx.chunks = chunks
	idx.postings = make(map[string][]posting)
	idx.docLen = make([]int, len(chunks))

	total := 0
	for doc, chunk := range chunks {
		terms := idx.tokenizer.Tokenize(chunk.Text)
		idx.docLen[doc] = len(terms)
		total += len(terms)

		tf := make(map[string]int, len(terms))
		for _, term := range terms {
			tf[term]++
		}
		for term, n := range tf {
			idx.postings[term] = append(idx.postings[term], posting{Doc: doc, TF: n})
		}
	}
	idx.avgLen = float64(total) / float64(len(chunks))

	logger.Debug("BM25 index: %d chunk(s), %d term(s), avg length %.1f",
		len(chunks), len(idx.postings), idx.avgLen)
	return nil
}

// Search returns the min(k, corpus) highest-scoring chunks for the
// query. Scores are BM25 relevance, higher is better; chunks matching
// no query term score zero and rank after every match, in corpus order.
// k <= 0 returns empty.
func (idx *Index) Search(_ context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}

	terms := idx.tokenizer.Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	n := float64(len(idx.chunks))
	scores := make(map[int]float64)

	for _, term := range terms {
		plist, ok := idx.postings[term]
		if !ok {
			continue
		}
		df := float64(len(plist))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		for _, p := range plist {
			tf := float64(p.TF)
			norm := tf * (k1 + 1) / (tf + k1*(1-b+b*float64(idx.docLen[p.Doc])/idx.avgLen))
			scores[p.Doc] += idf * norm
		}
	}

	docs := make([]int, 0, len(scores))
	for doc := range scores {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if scores[docs[i]] != scores[docs[j]] {
			return scores[docs[i]] > scores[docs[j]]
		}
		return docs[i] < docs[j]
	})

	limit := k
	if limit > len(idx.chunks) {
		limit = len(idx.chunks)
	}

	// Every chunk scores against the query; unmatched chunks score zero,
	// so the result count is always min(k, corpus).
	for doc := 0; len(docs) < limit && doc < len(idx.chunks); doc++ {
		if _, matched := scores[doc]; !matched {
			docs = append(docs, doc)
		}
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}

	hits := make([]domain.ScoredChunk, len(docs))
	for i, doc := range docs {
		hits[i] = domain.ScoredChunk{Chunk: idx.chunks[doc], Score: scores[doc]}
	}
	return hits, nil
}

// artifact is the gob-persisted form of the index.
type artifact struct {
	SegmentCJK bool
	Chunks     []domain.Chunk
	Postings   map[string][]posting
	DocLen     []int
	AvgLen     float64
}

// Save persists the index artifact to path.
func (idx *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating keyword artifact: %w", err)
	}
	defer f.Close()

	art := artifact{
		SegmentCJK: idx.segmentCJK,
		Chunks:     idx.chunks,
		Postings:   idx.postings,
		DocLen:     idx.docLen,
		AvgLen:     idx.avgLen,
	}
	if err := gob.NewEncoder(f).Encode(&art); err != nil {
		return fmt.Errorf("encoding keyword artifact: %w", err)
	}
	return nil
}

// Load restores the index artifact from path.
func (idx *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening keyword artifact: %w", err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return fmt.Errorf("decoding keyword artifact: %w", err)
	}

	idx.segmentCJK = art.SegmentCJK
	idx.tokenizer = NewTokenizer(art.SegmentCJK)
	idx.chunks = art.Chunks
	idx.postings = art.Postings
	idx.docLen = art.DocLen
	idx.avgLen = art.AvgLen
	return nil
}
