// Package sqlite provides a notification state store backed by a SQLite
// database file, for deployments that prefer a real database over a JSON
// state file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/zq535228/UptimeGuard/internal/notifystate"
)

// Store implements notifystate.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and ensures the schema exists.
func New(ctx context.Context, dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL", dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS notification_state (
	site_url             TEXT PRIMARY KEY,
	status               TEXT NOT NULL,
	notified_at          INTEGER NOT NULL,
	consecutive_failures INTEGER NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Load reads the full mapping.
func (s *Store) Load() (map[string]notifystate.Record, error) {
	rows, err := s.db.Query(`SELECT site_url, status, notified_at, consecutive_failures FROM notification_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification state: %w", err)
	}
	defer rows.Close()

	records := map[string]notifystate.Record{}
	for rows.Next() {
		var url string
		var rec notifystate.Record
		if err := rows.Scan(&url, &rec.Status, &rec.Timestamp, &rec.ConsecutiveFailures); err != nil {
			return nil, fmt.Errorf("failed to scan notification state row: %w", err)
		}
		records[url] = rec
	}
	return records, rows.Err()
}

// Save replaces the full mapping in one transaction.
func (s *Store) Save(records map[string]notifystate.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM notification_state`); err != nil {
		return fmt.Errorf("failed to clear notification state: %w", err)
	}
	insert := `INSERT INTO notification_state (site_url, status, notified_at, consecutive_failures) VALUES (?, ?, ?, ?)`
	for url, rec := range records {
		if _, err := tx.Exec(insert, url, rec.Status, rec.Timestamp, rec.ConsecutiveFailures); err != nil {
			return fmt.Errorf("failed to insert notification state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearSite removes one site's record.
func (s *Store) ClearSite(url string) error {
	if _, err := s.db.Exec(`DELETE FROM notification_state WHERE site_url = ?`, url); err != nil {
		return fmt.Errorf("failed to clear site state: %w", err)
	}
	return nil
}

// ClearAll resets the whole mapping.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM notification_state`); err != nil {
		return fmt.Errorf("failed to clear notification state: %w", err)
	}
	return nil
}
