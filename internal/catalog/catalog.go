// Package catalog keeps a relational ledger of ingested documents: which
// filenames were ingested, when, and into how many chunks. It complements the
// document store (raw bytes) and the vector index (embeddings) with cheap
// queryable bookkeeping.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no catalog entry exists for a filename.
var ErrNotFound = errors.New("catalog entry not found")

// Entry is one ingestion record. Filename is unique; re-ingesting the same
// document updates the existing record.
type Entry struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Store wraps the SQLite-backed ingestion ledger.
type Store struct {
	db *sql.DB
}

// Open creates or opens the catalog database at the given path, creating
// parent directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory catalog, useful for tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory catalog: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS ingestions (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL UNIQUE,
    size_bytes INTEGER NOT NULL,
    chunks INTEGER NOT NULL,
    ingested_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingestions_ingested_at ON ingestions(ingested_at);
`

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record upserts the ingestion record for filename.
func (s *Store) Record(ctx context.Context, filename string, sizeBytes int64, chunks int) (Entry, error) {
	entry := Entry{
		ID:         uuid.NewString(),
		Filename:   filename,
		SizeBytes:  sizeBytes,
		Chunks:     chunks,
		IngestedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, filename, size_bytes, chunks, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			chunks = excluded.chunks,
			ingested_at = excluded.ingested_at`,
		entry.ID, entry.Filename, entry.SizeBytes, entry.Chunks,
		entry.IngestedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, fmt.Errorf("recording ingestion of %q: %w", filename, err)
	}

	// On conflict the original id survives; read the row back.
	return s.Get(ctx, filename)
}

// Get returns the ingestion record for filename, or ErrNotFound.
func (s *Store) Get(ctx context.Context, filename string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, size_bytes, chunks, ingested_at
		FROM ingestions WHERE filename = ?`, filename)
	return scanEntry(row)
}

// List returns all ingestion records, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, size_bytes, chunks, ingested_at
		FROM ingestions ORDER BY ingested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing ingestions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the record for filename and reports whether one existed.
func (s *Store) Delete(ctx context.Context, filename string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingestions WHERE filename = ?`, filename)
	if err != nil {
		return false, fmt.Errorf("deleting ingestion record %q: %w", filename, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting ingestion record %q: %w", filename, err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var ingestedAt string
	err := row.Scan(&entry.ID, &entry.Filename, &entry.SizeBytes, &entry.Chunks, &ingestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scanning ingestion record: %w", err)
	}
	entry.IngestedAt, err = time.Parse(time.RFC3339Nano, ingestedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing ingestion timestamp: %w", err)
	}
	return entry, nil
}
