// Package history keeps a log of preview visits in SQLite, independent of
// the link collection itself. Entries older than the retention window are
// pruned when the store is opened.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

// Retention is how long visit entries are kept.
const Retention = 30 * 24 * time.Hour

// Entry is one recorded visit.
type Entry struct {
	ID        string
	URL       string
	Title     string
	VisitedAt time.Time
}

// Store is the SQLite-backed visit log.
type Store struct {
	db *sqlx.DB
}

// Open opens (and if needed creates) the history database, applies pending
// migrations and prunes expired entries.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	var dsn string
	if dbPath == ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(DELETE)&_pragma=synchronous(NORMAL)"
	} else {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ctx := context.Background()
	if err := runMigrations(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{db: db}
	if err := s.prune(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("prune history: %w", err)
	}
	return s, nil
}

type entryRow struct {
	ID        string         `db:"id"`
	URL       string         `db:"url"`
	Title     sql.NullString `db:"title"`
	VisitedAt string         `db:"visited_at"`
}

func (r *entryRow) toEntry() *Entry {
	e := &Entry{
		ID:  r.ID,
		URL: r.URL,
	}
	if r.Title.Valid {
		e.Title = r.Title.String
	}
	e.VisitedAt = parseSQLiteTime(r.VisitedAt)
	return e
}

// Record logs a visit. An empty title falls back to the URL so the history
// list always has something to display.
func (s *Store) Record(ctx context.Context, url, title string) (*Entry, error) {
	if title == "" {
		title = url
	}
	e := &Entry{
		ID:        model.NewShortID(),
		URL:       url,
		Title:     title,
		VisitedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO history (id, url, title, visited_at) VALUES (?, ?, ?, ?)",
		e.ID, e.URL, e.Title, e.VisitedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}
	return e, nil
}

// List returns entries newest first. A non-empty query filters by substring
// match over url and title.
func (s *Store) List(ctx context.Context, query string) ([]*Entry, error) {
	q := "SELECT id, url, title, visited_at FROM history"
	args := []interface{}{}
	if query != "" {
		q += " WHERE url LIKE ? OR title LIKE ?"
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern)
	}
	q += " ORDER BY visited_at DESC"

	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]*Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toEntry()
	}
	return entries, nil
}

// IDs returns every entry ID, used for typo suggestions.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM history"); err != nil {
		return nil, fmt.Errorf("list history ids: %w", err)
	}
	return ids, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !model.ValidShortID(id) {
		return fmt.Errorf("invalid ID format")
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) prune(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-Retention).Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE visited_at < ?", cutoff)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func parseSQLiteTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
