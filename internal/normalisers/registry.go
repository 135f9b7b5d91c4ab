package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/loreseek/internal/normalisers/html"
	"github.com/custodia-labs/loreseek/internal/normalisers/markdown"
	"github.com/custodia-labs/loreseek/internal/normalisers/plaintext"
)

// Normaliser converts one format's markup to plain text.
type Normaliser interface {
	// Extensions lists the file extensions this normaliser handles,
	// lower-case with the leading dot.
	Extensions() []string

	// Render strips the format's markup.
	Render(text string) string
}

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt    map[string]Normaliser
	fallback Normaliser
}

// NewRegistry creates a registry with all built-in normalisers
// registered and plaintext as the fallback.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]Normaliser),
		fallback: plaintext.New(),
	}
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}

// Register adds a normaliser for its declared extensions. Later
// registrations win on conflict.
func (r *Registry) Register(n Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[ext] = n
	}
}

// Render converts one source file's content to plain text, selecting
// the normaliser by the path's extension.
func (r *Registry) Render(path, text string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if n, ok := r.byExt[ext]; ok {
		return n.Render(text)
	}
	return r.fallback.Render(text)
}
