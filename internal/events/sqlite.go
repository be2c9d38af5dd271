// SQLite-backed event sink for single-node deployments.
package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// DefaultDirPermissions is applied when creating the database directory.
const DefaultDirPermissions = 0755

// SQLiteSink persists events to a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (creating if needed) the SQLite database at dsn and
// applies migrations.
func NewSQLiteSink(dsn string) (*SQLiteSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite event sink: DSN not set")
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create event database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create event database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite event database", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite event database ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run event migrations", "error", err)
		return nil, fmt.Errorf("failed to run event migrations: %w", err)
	}
	slog.Debug("SQLite event sink ready", "dsn", dsn)
	return &SQLiteSink{db: db}, nil
}

// Append persists one event.
func (s *SQLiteSink) Append(ev Event) error {
	params, err := json.Marshal(ev.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal event params: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO activity_events (id, type, user_id, session_id, timestamp, params) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.UserID, ev.SessionID, ev.Timestamp, string(params),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", ev.Type, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *SQLiteSink) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, type, user_id, session_id, timestamp, params FROM activity_events ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var ev Event
		var params sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.UserID, &ev.SessionID, &ev.Timestamp, &params); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		if params.Valid && params.String != "" {
			if err := json.Unmarshal([]byte(params.String), &ev.Params); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event params: %w", err)
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return out, nil
}
