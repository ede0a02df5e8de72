package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/tonic/internal/apperr"
)

// VoicingRow represents a row in the voicings table. Notes are not stored;
// they are rebuilt from Root and Steps on read.
type VoicingRow struct {
	ID        string
	Name      string
	Root      string
	Steps     []int
	Formula   string
	Checksum  string
	CreatedAt time.Time
}

const maxListLimit = 500

// Insert stores a new voicing. A duplicate ID or name yields apperr.ErrAlreadyExists.
func (db *DB) Insert(ctx context.Context, v VoicingRow) error {
	stepsJSON, err := json.Marshal(v.Steps)
	if err != nil {
		return fmt.Errorf("library: encode steps: %w", err)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO voicings (id, name, root, steps, formula, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Root, string(stepsJSON), v.Formula, v.Checksum, v.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("library: insert voicing %q: %w", v.Name, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("library: insert voicing: %w", err)
	}
	return nil
}

// Get returns the voicing with the given ID or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (*VoicingRow, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, root, steps, formula, checksum, created_at
		FROM voicings WHERE id = ?
	`, id)
	return scanRow(row)
}

// GetByName returns the voicing with the given name or apperr.ErrNotFound.
func (db *DB) GetByName(ctx context.Context, name string) (*VoicingRow, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, root, steps, formula, checksum, created_at
		FROM voicings WHERE name = ?
	`, name)
	return scanRow(row)
}

// List returns voicings newest first with the total count. A non-empty
// formula filters by formula name. limit <= 0 means 50.
func (db *DB) List(ctx context.Context, limit, offset int, formula string) ([]VoicingRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM voicings WHERE (? = '' OR formula = ?)`, formula, formula,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("library: count voicings: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, root, steps, formula, checksum, created_at
		FROM voicings
		WHERE (? = '' OR formula = ?)
		ORDER BY created_at DESC, name ASC
		LIMIT ? OFFSET ?
	`, formula, formula, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("library: list voicings: %w", err)
	}
	defer rows.Close()

	var out []VoicingRow
	for rows.Next() {
		v, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

// Delete removes a voicing. A missing ID yields apperr.ErrNotFound.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM voicings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("library: delete voicing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("library: delete voicing: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*VoicingRow, error) {
	var v VoicingRow
	var stepsJSON string
	err := s.Scan(&v.ID, &v.Name, &v.Root, &stepsJSON, &v.Formula, &v.Checksum, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("library: scan voicing: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &v.Steps); err != nil {
		return nil, fmt.Errorf("library: decode steps for %s: %w", v.ID, err)
	}
	return &v, nil
}
