// Package plaintext is the fallback normaliser for already-rendered
// lore text.
package plaintext

import (
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normaliser passes text through with light cleanup.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text"}
}

// Render normalises line endings and collapses runs of blank lines;
// the content itself is untouched.
func (n *Normaliser) Render(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
