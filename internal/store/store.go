// Package store persists whiteboard pages as PNG bitmaps in SQLite.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lesson has no page at the requested index.
var ErrNotFound = errors.New("store: page not found")

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	lesson     TEXT    NOT NULL,
	idx        INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	png        BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (lesson, idx)
);
CREATE INDEX IF NOT EXISTS pages_updated ON pages (lesson, updated_at);
`

var pragmas = []string{
	"PRAGMA foreign_keys=ON",
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=10000",
	"PRAGMA synchronous=NORMAL",
}

// PageInfo describes a stored page without its pixels.
type PageInfo struct {
	Lesson    string
	Index     int
	Width     int
	Height    int
	Size      int
	UpdatedAt time.Time
}

// Store is a page store backed by one SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Open opens or creates the database at path. Parent directories are created
// as needed. Use Memory for a throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == Memory {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SavePage stores data as page idx of lesson, replacing any previous
// version. data must be a PNG image.
func (s *Store) SavePage(ctx context.Context, lesson string, idx int, data []byte) error {
	if lesson == "" {
		return fmt.Errorf("store: save page: empty lesson")
	}
	if idx < 0 {
		return fmt.Errorf("store: save page: negative index %d", idx)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("store: save page %s/%d: %w", lesson, idx, err)
	}
	if format != "png" {
		return fmt.Errorf("store: save page %s/%d: unsupported format %q", lesson, idx, format)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO pages (lesson, idx, width, height, png, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (lesson, idx) DO UPDATE SET
	width = excluded.width,
	height = excluded.height,
	png = excluded.png,
	updated_at = excluded.updated_at`,
		lesson, idx, cfg.Width, cfg.Height, data, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: save page %s/%d: %w", lesson, idx, err)
	}
	return nil
}

// LoadPage returns the PNG stored for page idx of lesson.
func (s *Store) LoadPage(ctx context.Context, lesson string, idx int) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT png FROM pages WHERE lesson = ? AND idx = ?`, lesson, idx).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load page %s/%d: %w", lesson, idx, err)
	}
	return data, nil
}

// DeletePage removes a page. Deleting a missing page returns ErrNotFound.
func (s *Store) DeletePage(ctx context.Context, lesson string, idx int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE lesson = ? AND idx = ?`, lesson, idx)
	if err != nil {
		return fmt.Errorf("store: delete page %s/%d: %w", lesson, idx, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete page %s/%d: %w", lesson, idx, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPages returns the pages of lesson ordered by index.
func (s *Store) ListPages(ctx context.Context, lesson string) ([]PageInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, width, height, length(png), updated_at FROM pages
WHERE lesson = ? ORDER BY idx`, lesson)
	if err != nil {
		return nil, fmt.Errorf("store: list pages %s: %w", lesson, err)
	}
	defer rows.Close()
	var out []PageInfo
	for rows.Next() {
		p := PageInfo{Lesson: lesson}
		var updated int64
		if err := rows.Scan(&p.Index, &p.Width, &p.Height, &p.Size, &updated); err != nil {
			return nil, fmt.Errorf("store: list pages %s: %w", lesson, err)
		}
		p.UpdatedAt = time.UnixMilli(updated)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list pages %s: %w", lesson, err)
	}
	return out, nil
}

// ListLessons returns every lesson that has at least one page, sorted by
// name.
func (s *Store) ListLessons(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lesson FROM pages ORDER BY lesson`)
	if err != nil {
		return nil, fmt.Errorf("store: list lessons: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("store: list lessons: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list lessons: %w", err)
	}
	return out, nil
}
