// Package cache provides a sqlite-backed DerivedStore so derived values
// survive across build processes. Entries are invalidated only by explicit
// clear, matching the in-memory cache's model.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
)

const schema = `
CREATE TABLE IF NOT EXISTS derived (
	id           TEXT PRIMARY KEY,
	reading_time INTEGER,
	outline      TEXT
);`

// Store is a sqlite implementation of notionblog.DerivedStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetReadingTime(ctx context.Context, id string) (int, bool, error) {
	var minutes sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT reading_time FROM derived WHERE id = ?`, id).Scan(&minutes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading cached reading time: %w", err)
	}
	if !minutes.Valid {
		return 0, false, nil
	}
	return int(minutes.Int64), true, nil
}

func (s *Store) PutReadingTime(ctx context.Context, id string, minutes int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO derived (id, reading_time) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET reading_time = excluded.reading_time`,
		id, minutes)
	if err != nil {
		return fmt.Errorf("caching reading time: %w", err)
	}
	return nil
}

func (s *Store) GetOutline(ctx context.Context, id string) ([]notionblog.TOCEntry, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT outline FROM derived WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached outline: %w", err)
	}
	if !raw.Valid {
		return nil, false, nil
	}
	var entries []notionblog.TOCEntry
	if err := json.Unmarshal([]byte(raw.String), &entries); err != nil {
		return nil, false, fmt.Errorf("decoding cached outline: %w", err)
	}
	return entries, true, nil
}

func (s *Store) PutOutline(ctx context.Context, id string, entries []notionblog.TOCEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO derived (id, outline) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET outline = excluded.outline`,
		id, string(raw))
	if err != nil {
		return fmt.Errorf("caching outline: %w", err)
	}
	return nil
}

// Clear removes every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM derived`); err != nil {
		return fmt.Errorf("clearing derived cache: %w", err)
	}
	return nil
}
