// Package library provides the SQLite-backed store of saved voicings.
package library

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS voicings (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	root       TEXT NOT NULL,
	steps      TEXT NOT NULL DEFAULT '[]',
	formula    TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voicings_formula ON voicings(formula);
CREATE INDEX IF NOT EXISTS idx_voicings_created ON voicings(created_at);
`

// Repository defines the voicing storage operations.
// Consumers depend on this interface rather than *DB.
type Repository interface {
	Insert(ctx context.Context, v VoicingRow) error
	Get(ctx context.Context, id string) (*VoicingRow, error)
	GetByName(ctx context.Context, name string) (*VoicingRow, error)
	List(ctx context.Context, limit, offset int, formula string) ([]VoicingRow, int, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

var _ Repository = (*DB)(nil)

// DB wraps a sql.DB with voicing operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("library: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("library: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("library: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
