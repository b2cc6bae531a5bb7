// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of the searches a user has run. Only
// the query, mode, result count and outcome are stored; results and drafts
// are never persisted.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-helper/internal/search"
	"github.com/pdiddy/citation-helper/pkg/types"
)

const defaultLimit = 20

// timeFormat is fixed-width so started_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one logged search.
type Entry struct {
	ID        int64         `json:"id"`
	Mode      search.Mode   `json:"mode"`
	Query     string        `json:"query"`
	Results   int           `json:"results"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// QueryOptions narrows List.
type QueryOptions struct {
	Mode  search.Mode
	Limit int
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			query TEXT NOT NULL,
			results INTEGER NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_started_at ON searches(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_mode ON searches(mode)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record logs one search outcome. It satisfies search.Recorder.
func (s *Store) Record(ctx context.Context, o search.Outcome) error {
	var errText sql.NullString
	if o.Err != nil {
		errText = sql.NullString{String: o.Err.Error(), Valid: true}
	}
	started := o.Started
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (mode, query, results, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(o.Mode), o.Query, o.Results, errText,
		started.UTC().Format(timeFormat), o.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}
	return nil
}

// List returns the most recent searches first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, mode, query, results, error, started_at, duration_ms FROM searches`
	var args []any
	if opts.Mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, string(opts.Mode))
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			mode    string
			errText sql.NullString
			started string
			ms      int64
		)
		if err := rows.Scan(&e.ID, &mode, &e.Query, &e.Results, &errText, &started, &ms); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Mode = search.Mode(mode)
		e.Error = errText.String
		e.Duration = time.Duration(ms) * time.Millisecond
		if t, err := time.Parse(timeFormat, started); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every logged search and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}

// FormatTable writes entries as a human-readable table to w.
func FormatTable(entries []Entry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-40s  %-7s  %s\n", "When", "Mode", "Query", "Results", "Notice")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		q := e.Query
		if r := []rune(q); len(r) > 40 {
			q = string(r[:37]) + "..."
		}
		fmt.Fprintf(w, "%-20s  %-8s  %-40s  %-7d  %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"), e.Mode, q, e.Results, e.Error)
	}
}

// FormatJSON writes entries as indented JSON to w.
func FormatJSON(entries []Entry, w io.Writer) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
