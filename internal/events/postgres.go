// Postgres-backed event sink for shared deployments.
package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "embed"

	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresSink persists events to a PostgreSQL database.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects to the database at dsn and applies migrations.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres event sink: DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres event database", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres event database ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run event migrations", "error", err)
		return nil, fmt.Errorf("failed to run event migrations: %w", err)
	}
	slog.Debug("Postgres event sink ready")
	return &PostgresSink{db: db}, nil
}

// Append persists one event.
func (s *PostgresSink) Append(ev Event) error {
	params, err := json.Marshal(ev.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal event params: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO activity_events (id, type, user_id, session_id, timestamp, params) VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.Type, ev.UserID, ev.SessionID, ev.Timestamp, string(params),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", ev.Type, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *PostgresSink) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, type, user_id, session_id, timestamp, params FROM activity_events ORDER BY timestamp DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Close closes the underlying database.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
