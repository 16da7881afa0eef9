// Package sqlite is the local single-file store: availability records and the event catalog.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"bettercorq/internal/domain"
)

// Store implements domain.RecordStore and domain.EventRepository on one SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS candidate_events (
			position INTEGER NOT NULL,
			name TEXT PRIMARY KEY,
			start_at TEXT NOT NULL,
			end_at TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			organization TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_candidate_events_position ON candidate_events(position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = "?"
		args[i] = k
	}
	query := fmt.Sprintf(`DELETE FROM records WHERE key IN (%s)`, strings.Join(placeholders, ","))
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// List returns the catalog in the order it was stored.
func (s *Store) List(ctx context.Context) ([]domain.CandidateEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, start_at, end_at, location, organization, source
		 FROM candidate_events
		 ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	events := []domain.CandidateEvent{}
	for rows.Next() {
		var (
			e          domain.CandidateEvent
			start, end string
		)
		if err := rows.Scan(&e.Name, &start, &end, &e.Location, &e.Organization, &e.Source); err != nil {
			return nil, err
		}
		if e.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("event %q start: %w", e.Name, err)
		}
		if e.End, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("event %q end: %w", e.Name, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ReplaceAll swaps the whole catalog in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, events []domain.CandidateEvent) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM candidate_events`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidate_events (position, name, start_at, end_at, location, organization, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, e := range events {
		if _, err = stmt.ExecContext(ctx, i, e.Name,
			e.Start.Format(time.RFC3339Nano), e.End.Format(time.RFC3339Nano),
			e.Location, e.Organization, e.Source); err != nil {
			return fmt.Errorf("insert event %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}
