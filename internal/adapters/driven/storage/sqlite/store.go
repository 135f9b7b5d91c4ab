// Package sqlite persists the per-language chunk corpus and manifest to a
// single database file inside the checkpoint directory.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/loreseek/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store is the SQLite-backed corpus store for one language.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the corpus database at the given path,
// creating parent directories as needed.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating checkpoint directory: %w", err)
	}

	// WAL mode: builds write while a serving process may still hold reads
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveChunks replaces the stored corpus with the given map in one
// transaction.
func (s *Store) SaveChunks(ctx context.Context, corpus map[string][]domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (file_id, chunk_index, text, path)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunks := range corpus {
		for _, c := range chunks {
			if _, err := stmt.ExecContext(ctx, c.FileID, c.Index, c.Text, c.Path); err != nil {
				return fmt.Errorf("saving chunk %s/%d: %w", c.FileID, c.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadChunks restores the full corpus map, each file's chunks ordered
// ascending by index.
func (s *Store) LoadChunks(ctx context.Context) (map[string][]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, chunk_index, text, path
		FROM chunks
		ORDER BY file_id, chunk_index
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	corpus := make(map[string][]domain.Chunk)
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.FileID, &c.Index, &c.Text, &c.Path); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		corpus[c.FileID] = append(corpus[c.FileID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return corpus, nil
}

// SaveManifest replaces the stored manifest entries, preserving their
// order.
func (s *Store) SaveManifest(ctx context.Context, entries []domain.ManifestEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM manifest"); err != nil {
		return fmt.Errorf("clearing manifest: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manifest (relative_path, position, category, title, entry_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.RelativePath, i, string(e.Category), e.Title, e.ID); err != nil {
			return fmt.Errorf("saving manifest entry %s: %w", e.RelativePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadManifest restores the manifest catalog in its original order.
func (s *Store) LoadManifest(ctx context.Context) (*domain.Manifest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT relative_path, category, title, entry_id
		FROM manifest
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	var entries []domain.ManifestEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.ManifestEntry
		var category string
		if err := rows.Scan(&e.RelativePath, &category, &e.Title, &e.ID); err != nil {
			return nil, fmt.Errorf("scanning manifest entry: %w", err)
		}
		e.Category = domain.Category(category)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manifest: %w", err)
	}

	return domain.NewManifest(entries), nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
