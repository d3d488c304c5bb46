package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkTable = (*Store)(nil)

// Store is a SQLite-backed chunk table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the chunk table at path and applies migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps the file handle count at one, which matters
	// because the file is renamed once closed.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:   db,
		path: path,
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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
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
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
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

// ReplaceChunks deletes every row and writes chunks at positions 0..n-1 in one transaction.
func (s *Store) ReplaceChunks(ctx context.Context, meta driven.TableMeta, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, label, text, source, page)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, i, chunk.Label, chunk.Text, chunk.Source, chunk.Page); err != nil {
			return fmt.Errorf("saving chunk %d: %w", i, err)
		}
	}

	builtAt := meta.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, generation, model, built_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generation = excluded.generation,
			model = excluded.model,
			built_at = excluded.built_at
	`, meta.Generation, meta.Model, builtAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("stamping chunk table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Chunks returns all rows ordered by position.
// Returns an error if the positions are not exactly 0..n-1.
func (s *Store) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, label, text, source, page
		FROM chunks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var position int
		var chunk domain.Chunk
		if err := rows.Scan(&position, &chunk.Label, &chunk.Text, &chunk.Source, &chunk.Page); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if position != len(chunks) {
			return nil, fmt.Errorf("chunk table has a gap at position %d", len(chunks))
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// Meta returns the stamp written by the last ReplaceChunks.
// Returns domain.ErrMissingIndex if the table was never stamped.
func (s *Store) Meta(ctx context.Context) (*driven.TableMeta, error) {
	var meta driven.TableMeta
	var builtAt string

	row := s.db.QueryRowContext(ctx, "SELECT generation, model, built_at FROM index_meta WHERE id = 1")
	if err := row.Scan(&meta.Generation, &meta.Model, &builtAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: chunk table was never written", domain.ErrMissingIndex)
		}
		return nil, fmt.Errorf("reading index meta: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return nil, fmt.Errorf("parsing built_at: %w", err)
	}
	meta.BuiltAt = t

	return &meta, nil
}
