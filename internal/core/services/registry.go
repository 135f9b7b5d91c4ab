package services

import (
	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driving"
)

// Store pairs one language's retriever with its manifest catalog.
// In local mode the retriever is the in-process facade over a loaded
// checkpoint; in remote mode it is a thin HTTP client. Both satisfy the
// same contract, so holders of a Store are deployment-mode-agnostic.
type Store struct {
	Retriever driving.Retriever
	Manifest  *domain.Manifest
}

// Registry maps languages to their stores. It is constructed once at
// process bootstrap and passed by reference to request handlers; there is
// no ambient global state and no mutation after construction.
type Registry struct {
	stores map[domain.Language]*Store
	langs  []domain.Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[domain.Language]*Store)}
}

// Add registers a store for a language. Registering the same language
// twice replaces the previous store.
func (r *Registry) Add(lang domain.Language, store *Store) {
	if _, exists := r.stores[lang]; !exists {
		r.langs = append(r.langs, lang)
	}
	r.stores[lang] = store
}

// Get resolves the store for a language. Unknown languages fail with an
// error enumerating the served languages.
func (r *Registry) Get(lang domain.Language) (*Store, error) {
	store, ok := r.stores[lang]
	if !ok {
		return nil, &domain.UnknownLanguageError{Language: lang, Known: r.Languages()}
	}
	return store, nil
}

// Languages returns the served languages in registration order.
func (r *Registry) Languages() []domain.Language {
	out := make([]domain.Language, len(r.langs))
	copy(out, r.langs)
	return out
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.stores)
}
