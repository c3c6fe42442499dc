// Package store keeps a SQLite history of solve requests and their best
// solutions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/move"
)

const schema = `
CREATE TABLE IF NOT EXISTS solves (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    rack TEXT NOT NULL,
    board_fingerprint TEXT NOT NULL,
    board TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS solves_fingerprint ON solves (board_fingerprint);
CREATE TABLE IF NOT EXISTS solutions (
    solve_id INTEGER NOT NULL REFERENCES solves (id) ON DELETE CASCADE,
    rank INTEGER NOT NULL,
    description TEXT NOT NULL,
    score INTEGER NOT NULL,
    PRIMARY KEY (solve_id, rank)
);
`

// SolutionRecord is a solution as stored: its short description and score.
type SolutionRecord struct {
	Description string
	Score       int
}

// Entry is one solve request and its top solutions, best first.
type Entry struct {
	ID          int64
	Rack        string
	Fingerprint uint64
	Board       []string
	CreatedAt   time.Time
	Solutions   []SolutionRecord
}

// NewEntry builds an entry from a solve, keeping the best n solutions.
func NewEntry(rack string, b *board.Board, solutions []*move.Solution, n int) Entry {
	e := Entry{
		Rack:        rack,
		Fingerprint: b.Fingerprint(),
		Board:       b.Rows(),
		CreatedAt:   time.Now().UTC(),
	}
	for _, s := range move.Top(solutions, n) {
		e.Solutions = append(e.Solutions, SolutionRecord{Description: s.ShortDescription(), Score: s.Score()})
	}
	return e
}

// Store persists solve history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts an entry and its solutions, returning the new entry id.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(e.Rack) == "" {
		return 0, fmt.Errorf("rack is required")
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO solves (rack, board_fingerprint, board, created_at) VALUES (?, ?, ?, ?)`,
		e.Rack, strconv.FormatUint(e.Fingerprint, 16), strings.Join(e.Board, "\n"), toMillis(createdAt))
	if err != nil {
		return 0, fmt.Errorf("insert solve: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("solve id: %w", err)
	}
	for rank, sol := range e.Solutions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO solutions (solve_id, rank, description, score) VALUES (?, ?, ?, ?)`,
			id, rank, sol.Description, sol.Score); err != nil {
			return 0, fmt.Errorf("insert solution: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	return s.query(ctx,
		`SELECT id, rack, board_fingerprint, board, created_at FROM solves ORDER BY id DESC LIMIT ?`, n)
}

// ForBoard returns every entry recorded for a board with this fingerprint,
// newest first.
func (s *Store) ForBoard(ctx context.Context, fingerprint uint64) ([]Entry, error) {
	return s.query(ctx,
		`SELECT id, rack, board_fingerprint, board, created_at FROM solves
		 WHERE board_fingerprint = ? ORDER BY id DESC`, strconv.FormatUint(fingerprint, 16))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			fp, bd    string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Rack, &fp, &bd, &createdAt); err != nil {
			return nil, fmt.Errorf("scan solve: %w", err)
		}
		e.Fingerprint, err = strconv.ParseUint(fp, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad fingerprint %q: %w", fp, err)
		}
		e.Board = strings.Split(bd, "\n")
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solves: %w", err)
	}
	for i := range entries {
		if entries[i].Solutions, err = s.solutions(ctx, entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Store) solutions(ctx context.Context, id int64) ([]SolutionRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT description, score FROM solutions WHERE solve_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("query solutions: %w", err)
	}
	defer rows.Close()
	var out []SolutionRecord
	for rows.Next() {
		var r SolutionRecord
		if err := rows.Scan(&r.Description, &r.Score); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
