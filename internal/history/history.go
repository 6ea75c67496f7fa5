// Package history persists finished analysis records in a local SQLite
// database, keyed by the document's stable content identifier. Re-analyzing
// the same file replaces its record in place.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docsift/docsift/internal/analysis"
	"github.com/docsift/docsift/internal/pipeline"
)

// ErrNotFound is returned when no record exists for a document id.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source_kind TEXT NOT NULL,
	pages INTEGER NOT NULL DEFAULT 0,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT '',
	chunk_count INTEGER NOT NULL DEFAULT 1,
	state TEXT NOT NULL,
	result_json TEXT NOT NULL,
	document_text TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_updated ON records(updated_at);
`

// Store is a SQLite-backed record store. Safe for concurrent use; the
// underlying *sql.DB pools connections.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the record for rec's document id. The original
// creation time survives replacement.
func (s *Store) Save(ctx context.Context, rec *pipeline.Record) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records
			(id, name, source_kind, pages, size_bytes, language, chunk_count,
			 state, result_json, document_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			source_kind = excluded.source_kind,
			pages = excluded.pages,
			size_bytes = excluded.size_bytes,
			language = excluded.language,
			chunk_count = excluded.chunk_count,
			state = excluded.state,
			result_json = excluded.result_json,
			document_text = excluded.document_text,
			updated_at = excluded.updated_at`,
		rec.DocumentID, rec.Name, rec.Source, rec.Pages, rec.SizeBytes,
		rec.Language, rec.ChunkCount, rec.State, string(resultJSON), rec.Text,
		rec.CreatedAt.Unix(), rec.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.DocumentID, err)
	}

	s.logger.Debug("record saved", "document_id", rec.DocumentID, "state", rec.State)
	return nil
}

// Get loads a record by document id.
func (s *Store) Get(ctx context.Context, id string) (*pipeline.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_kind, pages, size_bytes, language, chunk_count,
		       state, result_json, document_text, created_at, updated_at
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns all records, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*pipeline.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source_kind, pages, size_bytes, language, chunk_count,
		       state, result_json, document_text, created_at, updated_at
		FROM records ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*pipeline.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record. Deleting a missing id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*pipeline.Record, error) {
	var rec pipeline.Record
	var resultJSON string
	var created, updated int64

	err := row.Scan(&rec.DocumentID, &rec.Name, &rec.Source, &rec.Pages,
		&rec.SizeBytes, &rec.Language, &rec.ChunkCount, &rec.State,
		&resultJSON, &rec.Text, &created, &updated)
	if err != nil {
		return nil, err
	}

	var result analysis.Result
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("decode stored result for %s: %w", rec.DocumentID, err)
	}
	rec.Result = result

	// The state column is a closed enum; reject rows that drifted.
	state, err := pipeline.ParseRecordState(rec.State)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.DocumentID, err)
	}
	rec.State = state.String()
	rec.CreatedAt = time.Unix(created, 0)
	rec.UpdatedAt = time.Unix(updated, 0)
	return &rec, nil
}
