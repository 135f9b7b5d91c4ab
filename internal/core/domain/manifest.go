package domain

// Category classifies a corpus document for citation display and browsing.
type Category string

// Known document categories in the lore corpus.
const (
	CategoryQuest     Category = "quest"
	CategoryItem      Category = "item"
	CategoryCharacter Category = "character"
	CategoryWorld     Category = "world"
	CategoryCutscene  Category = "cutscene"
	CategoryGlossary  Category = "glossary"
)

// ManifestEntry maps a corpus-relative path to human-readable identity.
type ManifestEntry struct {
	Category     Category `json:"category"`
	Title        string   `json:"title"`
	ID           int      `json:"id"`
	RelativePath string   `json:"relative_path"`
}

// Manifest is the per-language document catalog. It is loaded once at
// startup and immutable for the process lifetime.
type Manifest struct {
	entries []ManifestEntry
	byPath  map[string]*ManifestEntry
}

// NewManifest builds a manifest from its entries. Later duplicates of the
// same relative path win, matching the order the catalog was produced in.
func NewManifest(entries []ManifestEntry) *Manifest {
	m := &Manifest{
		entries: entries,
		byPath:  make(map[string]*ManifestEntry, len(entries)),
	}
	for i := range m.entries {
		m.byPath[m.entries[i].RelativePath] = &m.entries[i]
	}
	return m
}

// Lookup resolves a corpus-relative path to its manifest entry.
// Returns nil when the path is not catalogued.
func (m *Manifest) Lookup(relativePath string) *ManifestEntry {
	if m == nil {
		return nil
	}
	return m.byPath[relativePath]
}

// Entries returns all catalog entries in their original order.
func (m *Manifest) Entries() []ManifestEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Len returns the number of catalogued documents.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}
