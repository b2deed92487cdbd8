// Package postgres provides a notification state store on PostgreSQL. The
// file store assumes a single process; this backend exists for deployments
// that want the same load/decide/write-back cycle on a transactional
// database instead.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zq535228/UptimeGuard/internal/notifystate"
)

// Store implements notifystate.Store on PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// New connects to the database and ensures the schema exists.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	store := &Store{db: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Close closes the connection pool.
func (s *Store) Close() { s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS notification_state (
	site_url             TEXT PRIMARY KEY,
	status               TEXT NOT NULL,
	notified_at          BIGINT NOT NULL,
	consecutive_failures INTEGER NOT NULL
);
`
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Load reads the full mapping.
func (s *Store) Load() (map[string]notifystate.Record, error) {
	ctx := context.Background()
	rows, err := s.db.Query(ctx, `SELECT site_url, status, notified_at, consecutive_failures FROM notification_state`)
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
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM notification_state`); err != nil {
		return fmt.Errorf("failed to clear notification state: %w", err)
	}
	insert := `INSERT INTO notification_state (site_url, status, notified_at, consecutive_failures) VALUES ($1, $2, $3, $4)`
	for url, rec := range records {
		if _, err := tx.Exec(ctx, insert, url, rec.Status, rec.Timestamp, rec.ConsecutiveFailures); err != nil {
			return fmt.Errorf("failed to insert notification state: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearSite removes one site's record.
func (s *Store) ClearSite(url string) error {
	if _, err := s.db.Exec(context.Background(), `DELETE FROM notification_state WHERE site_url = $1`, url); err != nil {
		return fmt.Errorf("failed to clear site state: %w", err)
	}
	return nil
}

// ClearAll resets the whole mapping.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec(context.Background(), `DELETE FROM notification_state`); err != nil {
		return fmt.Errorf("failed to clear notification state: %w", err)
	}
	return nil
}
