// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of every submission attempt and
// exports it as YAML or JSON.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/excelab/pkg/types"
)

const dbFile = "history.db"

// timeLayout is fixed width so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

// Store manages the attempt history database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates dir/history.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			module TEXT NOT NULL,
			endpoint TEXT,
			files TEXT,
			outcome TEXT NOT NULL,
			status INTEGER,
			message TEXT,
			saved_path TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_module ON attempts(module)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_outcome ON attempts(outcome)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a, replacing any earlier row with the same ID.
func (s *Store) Record(ctx context.Context, a types.Attempt) error {
	files, err := json.Marshal(a.Files)
	if err != nil {
		return fmt.Errorf("marshaling files: %w", err)
	}
	var finished string
	if !a.FinishedAt.IsZero() {
		finished = a.FinishedAt.UTC().Format(timeLayout)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO attempts
			(id, module, endpoint, files, outcome, status, message, saved_path, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Module), a.Endpoint, string(files), string(a.Outcome),
		a.Status, a.Message, a.SavedPath, a.StartedAt.UTC().Format(timeLayout), finished,
	)
	if err != nil {
		return fmt.Errorf("inserting attempt %s: %w", a.ID, err)
	}
	return nil
}

// Filter narrows List and the exports.
type Filter struct {
	Module  types.Mode
	Outcome types.Outcome

	// Limit caps the number of rows. Zero means DefaultLimit; negative
	// means no limit.
	Limit int
}

// List returns attempts newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.Attempt, error) {
	var (
		where []string
		args  []any
	)
	if f.Module != "" {
		where = append(where, "module = ?")
		args = append(args, string(f.Module))
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, string(f.Outcome))
	}

	query := `SELECT id, module, endpoint, files, outcome, status, message, saved_path, started_at, finished_at
		FROM attempts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC"

	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var out []types.Attempt
	for rows.Next() {
		var (
			a                        types.Attempt
			module, outcome          string
			endpoint, files, message sql.NullString
			savedPath, finished      sql.NullString
			status                   sql.NullInt64
			started                  string
		)
		if err := rows.Scan(&a.ID, &module, &endpoint, &files, &outcome, &status,
			&message, &savedPath, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.Module = types.Mode(module)
		a.Outcome = types.Outcome(outcome)
		a.Endpoint = endpoint.String
		a.Status = int(status.Int64)
		a.Message = message.String
		a.SavedPath = savedPath.String
		if files.String != "" {
			if err := json.Unmarshal([]byte(files.String), &a.Files); err != nil {
				return nil, fmt.Errorf("parsing files of %s: %w", a.ID, err)
			}
		}
		if a.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing start time of %s: %w", a.ID, err)
		}
		if finished.String != "" {
			if a.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("parsing finish time of %s: %w", a.ID, err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns attempts per outcome.
func (s *Store) Count(ctx context.Context) (map[types.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, count(*) FROM attempts GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("counting attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.Outcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[types.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}
