// Package markdown strips Markdown formatting from lore source files.
package markdown

import (
	"regexp"
	"strings"
)

// Pre-compiled expressions for Markdown stripping.
var (
	codeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	rules        = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles Markdown lore exports.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Render removes common Markdown formatting: emphasis, headings, links,
// list and quote markers, code fences. Link text survives; code and
// image content does not.
func (n *Normaliser) Render(text string) string {
	text = codeBlock.ReplaceAllString(text, "")
	text = inlineCode.ReplaceAllString(text, "")
	text = images.ReplaceAllString(text, "")
	text = links.ReplaceAllString(text, "$1")
	text = headings.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "_", " ")

	text = blockquote.ReplaceAllString(text, "")
	text = rules.ReplaceAllString(text, "")
	text = listMarkers.ReplaceAllString(text, "")
	text = numberedList.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
