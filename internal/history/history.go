package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sadopc/puml2sql/internal/config"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	input        TEXT NOT NULL,
	output       TEXT NOT NULL DEFAULT '',
	target       TEXT NOT NULL DEFAULT '',
	tables       INTEGER,
	statements   INTEGER,
	diagnostics  INTEGER,
	executed_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
	duration_ms  INTEGER,
	is_error     BOOLEAN DEFAULT FALSE
)`

const selectColumns = `SELECT id, input, output, target, tables, statements, diagnostics, executed_at, duration_ms, is_error
	 FROM runs`

// Entry represents a single conversion run in the history log.
type Entry struct {
	ID          int64
	Input       string
	Output      string
	Target      string // display string of the apply target, empty if not applied
	Tables      int
	Statements  int
	Diagnostics int
	ExecutedAt  time.Time
	DurationMS  int64
	IsError     bool
}

// History provides SQLite-backed storage of conversion runs.
type History struct {
	db *sql.DB
}

// New opens (or creates) the history database at ConfigDir()/history.db and
// ensures the schema exists.
func New() (*History, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("history: config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	return Open(filepath.Join(dir, "history.db"))
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}

	return &History{db: db}, nil
}

// Add inserts a new history entry.
func (h *History) Add(entry Entry) error {
	_, err := h.db.Exec(
		`INSERT INTO runs (input, output, target, tables, statements, diagnostics, executed_at, duration_ms, is_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Input,
		entry.Output,
		entry.Target,
		entry.Tables,
		entry.Statements,
		entry.Diagnostics,
		entry.ExecutedAt,
		entry.DurationMS,
		entry.IsError,
	)
	if err != nil {
		return fmt.Errorf("history add: %w", err)
	}
	return nil
}

// Search returns runs whose input, output or target matches the given
// pattern using SQL LIKE. Results are ordered by most recent first, limited
// to limit rows.
func (h *History) Search(pattern string, limit int) ([]Entry, error) {
	rows, err := h.db.Query(
		selectColumns+`
		 WHERE input LIKE ? OR output LIKE ? OR target LIKE ?
		 ORDER BY executed_at DESC
		 LIMIT ?`,
		pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history search: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent returns the most recent runs, limited to limit rows.
func (h *History) Recent(limit int) ([]Entry, error) {
	rows, err := h.db.Query(
		selectColumns+`
		 ORDER BY executed_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Clear deletes all history entries.
func (h *History) Clear() error {
	if _, err := h.db.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.Input,
			&e.Output,
			&e.Target,
			&e.Tables,
			&e.Statements,
			&e.Diagnostics,
			&e.ExecutedAt,
			&e.DurationMS,
			&e.IsError,
		); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return entries, nil
}
