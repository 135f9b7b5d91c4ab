// Package bm25 provides a pure-Go lexical search index over the chunk
// corpus using the BM25 ranking function.
package bm25

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns chunk text into normalised terms. Text is NFKC-folded
// (full-width forms, compatibility ligatures) and lowercased before
// splitting.
//
// Latin-script runs split on non-letter/digit boundaries. CJK runs have
// no whitespace-delimited words, so in segmented mode they are indexed
// as character bigrams, the standard trick that sidesteps dictionary
// segmentation entirely.
type Tokenizer struct {
	segmentCJK bool
}

// NewTokenizer creates a tokenizer. segmentCJK enables bigram
// segmentation of CJK script runs; word-per-run otherwise.
func NewTokenizer(segmentCJK bool) *Tokenizer {
	return &Tokenizer{segmentCJK: segmentCJK}
}

// Tokenize returns the terms of text in occurrence order.
func (t *Tokenizer) Tokenize(text string) []string {
	folded := strings.ToLower(norm.NFKC.String(text))

	var terms []string
	var word []rune  // current non-CJK word run
	var ideo []rune  // current CJK run

	flushWord := func() {
		if len(word) > 0 {
			terms = append(terms, string(word))
			word = word[:0]
		}
	}
	flushIdeo := func() {
		switch {
		case len(ideo) == 0:
		case !t.segmentCJK || len(ideo) == 1:
			terms = append(terms, string(ideo))
		default:
			for i := 0; i+1 < len(ideo); i++ {
				terms = append(terms, string(ideo[i:i+2]))
			}
		}
		ideo = ideo[:0]
	}

	for _, r := range folded {
		switch {
		case isCJK(r):
			flushWord()
			ideo = append(ideo, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushIdeo()
			word = append(word, r)
		default:
			flushWord()
			flushIdeo()
		}
	}
	flushWord()
	flushIdeo()

	return terms
}

// isCJK reports whether r belongs to a script without word delimiters.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
