// Package splitter provides recursive separator-based text splitting.
//
// Text is split on the coarsest separator first (paragraph breaks), then
// progressively finer ones (line breaks, characters) until every piece
// fits the target chunk size. Adjacent chunks overlap by a fixed amount
// so no sentence is stranded on a chunk boundary.
package splitter

import "strings"

// DefaultChunkSize is the default target chunk size in bytes.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between adjacent chunks in bytes.
const DefaultOverlap = 200

// separators are tried coarsest-first; the empty string means a hard
// character-level cut.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter splits document text into overlapping chunks close to a target
// size. Size and overlap are corpus build constants, not query-time
// parameters.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split splits text into chunks. Empty input produces no chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	pieces := s.split(text, 0)
	return s.merge(pieces)
}

// split recursively cuts text into pieces no larger than chunkSize,
// preferring the coarsest separator that still fits.
func (s *Splitter) split(text string, sepIdx int) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if sepIdx >= len(separators) {
		return []string{text}
	}

	sep := separators[sepIdx]
	if sep == "" {
		return s.hardCut(text)
	}

	parts := strings.SplitAfter(text, sep)
	pieces := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > s.chunkSize {
			pieces = append(pieces, s.split(part, sepIdx+1)...)
			continue
		}
		pieces = append(pieces, part)
	}
	return pieces
}

// hardCut slices text into chunkSize windows advancing by
// chunkSize-overlap, cutting only on rune boundaries.
func (s *Splitter) hardCut(text string) []string {
	step := s.chunkSize - s.overlap
	runes := []rune(text)
	var out []string

	pos := 0
	for pos < len(runes) {
		end := pos
		size := 0
		for end < len(runes) && size+len(string(runes[end])) <= s.chunkSize {
			size += len(string(runes[end]))
			end++
		}
		if end == pos {
			end = pos + 1
		}
		out = append(out, string(runes[pos:end]))
		if end >= len(runes) {
			break
		}

		advanced := 0
		next := pos
		for next < end && advanced < step {
			advanced += len(string(runes[next]))
			next++
		}
		if next == pos {
			next = pos + 1
		}
		pos = next
	}
	return out
}

// merge greedily combines pieces into chunks close to chunkSize, seeding
// each new chunk with the tail of the previous one for overlap.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		text := strings.TrimRight(current.String(), "\n")
		if strings.TrimSpace(text) != "" {
			chunks = append(chunks, text)
		}
		current.Reset()
	}

	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(piece) > s.chunkSize {
			tail := overlapTail(current.String(), s.overlap)
			flush()
			current.WriteString(tail)
		}
		current.WriteString(piece)
	}
	if current.Len() > 0 {
		flush()
	}
	return chunks
}

// overlapTail returns at most n trailing bytes of text, extended left to
// the nearest rune boundary.
func overlapTail(text string, n int) string {
	if n <= 0 || text == "" {
		return ""
	}
	if len(text) <= n {
		return text
	}
	start := len(text) - n
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	return text[start:]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
