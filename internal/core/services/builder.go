package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// TextSplitter splits one document's text into chunk-sized pieces.
// Implemented by the recursive separator splitter.
type TextSplitter interface {
	Split(text string) []string
}

// DocumentRenderer strips source markup from a lore file before it is
// split. Implemented by the format normaliser registry; selection is by
// file extension.
type DocumentRenderer interface {
	Render(path, text string) string
}

// BuildConfig describes one language's offline corpus build.
type BuildConfig struct {
	// SourceDir holds the rendered text corpus (the collaborator
	// pipeline's output).
	SourceDir string

	// ManifestPath is the collaborator-produced manifest.json. Optional;
	// an empty path builds a corpus without a catalog.
	ManifestPath string

	// KeywordPath is where the keyword index artifact is saved.
	KeywordPath string

	// VectorPath is where the vector index artifact is saved. Ignored
	// when the vector backend does not persist locally.
	VectorPath string
}

// BuildStats summarises a finished corpus build.
type BuildStats struct {
	Files   int
	Skipped int
	Chunks  int
}

// Builder performs the one-shot offline corpus build for one language:
// read rendered text files, split into chunks, build both indexes,
// persist everything to the checkpoint. The resulting artifacts are
// immutable; a rebuild replaces the whole set.
type Builder struct {
	splitter TextSplitter
	keyword  driven.KeywordIndex
	vector   driven.VectorIndex
	store    driven.CorpusStore
	renderer DocumentRenderer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRenderer sets the markup renderer applied to each source file
// before splitting. Without one, files are split as-is.
func WithRenderer(r DocumentRenderer) BuilderOption {
	return func(b *Builder) {
		b.renderer = r
	}
}

// NewBuilder creates a corpus builder. vector may be nil for a
// keyword-only corpus.
func NewBuilder(splitter TextSplitter, keyword driven.KeywordIndex, vector driven.VectorIndex, store driven.CorpusStore, opts ...BuilderOption) *Builder {
	b := &Builder{
		splitter: splitter,
		keyword:  keyword,
		vector:   vector,
		store:    store,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the full build. Unreadable source files are skipped, logged
// and counted; an entirely empty corpus is a fatal configuration error.
func (b *Builder) Build(ctx context.Context, cfg BuildConfig) (BuildStats, error) {
	logger.Section("Corpus Build")
	var stats BuildStats

	paths, err := listSourceFiles(cfg.SourceDir)
	if err != nil {
		return stats, fmt.Errorf("listing source files: %w", err)
	}
	logger.Info("Found %d source file(s) under %s", len(paths), cfg.SourceDir)

	corpus := make(map[string][]domain.Chunk)
	var all []domain.Chunk

	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(cfg.SourceDir, path))
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", path, err)
			stats.Skipped++
			continue
		}

		text := string(data)
		if b.renderer != nil {
			text = b.renderer.Render(path, text)
		}

		pieces := b.splitter.Split(text)
		if len(pieces) == 0 {
			logger.Debug("File %s produced no chunks", path)
			continue
		}

		fileID := uuid.New().String()
		chunks := make([]domain.Chunk, len(pieces))
		for i, text := range pieces {
			chunks[i] = domain.Chunk{
				FileID: fileID,
				Index:  i,
				Text:   text,
				Path:   path,
			}
		}

		corpus[fileID] = chunks
		all = append(all, chunks...)
		stats.Files++
		stats.Chunks += len(chunks)
	}

	if len(all) == 0 {
		return stats, fmt.Errorf("no chunks produced from %s: %w", cfg.SourceDir, domain.ErrEmptyCorpus)
	}

	if err := b.keyword.Build(ctx, all); err != nil {
		return stats, fmt.Errorf("building keyword index: %w", err)
	}
	if err := b.keyword.Save(cfg.KeywordPath); err != nil {
		return stats, fmt.Errorf("saving keyword index: %w", err)
	}

	if b.vector != nil {
		if err := b.buildVector(ctx, all, cfg.VectorPath); err != nil {
			return stats, err
		}
	}

	if err := b.store.SaveChunks(ctx, corpus); err != nil {
		return stats, fmt.Errorf("saving chunk corpus: %w", err)
	}

	if cfg.ManifestPath != "" {
		entries, err := LoadManifestFile(cfg.ManifestPath)
		if err != nil {
			return stats, fmt.Errorf("loading manifest: %w", err)
		}
		if err := b.store.SaveManifest(ctx, entries); err != nil {
			return stats, fmt.Errorf("saving manifest: %w", err)
		}
		logger.Info("Imported %d manifest entr(ies)", len(entries))
	}

	logger.Info("Build complete: %d file(s), %d chunk(s), %d skipped",
		stats.Files, stats.Chunks, stats.Skipped)
	return stats, nil
}

// buildVector builds and persists the vector index. Backends whose data
// lifecycle lives elsewhere report ErrUnsupportedOperation; that is a
// deployment choice, not a build failure.
func (b *Builder) buildVector(ctx context.Context, all []domain.Chunk, path string) error {
	err := b.vector.Build(ctx, all)
	if errors.Is(err, domain.ErrUnsupportedOperation) {
		logger.Warn("Vector backend does not build locally, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("building vector index: %w", err)
	}

	err = b.vector.Save(path)
	if errors.Is(err, domain.ErrUnsupportedOperation) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("saving vector index: %w", err)
	}
	return nil
}

// listSourceFiles returns the corpus-relative paths of all regular files
// under dir, sorted for a deterministic build order.
func listSourceFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadManifestFile reads a collaborator-produced manifest.json.
func LoadManifestFile(path string) ([]domain.ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []domain.ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}
