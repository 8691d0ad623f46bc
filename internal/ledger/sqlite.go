// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// SQLite is a Ledger stored in a single SQLite file, so attempt history
// survives across runs.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the ledger database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	dsn := "file:" + clean + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one attempt.
func (s *SQLite) Record(ctx context.Context, a Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.Page == "" {
		return fmt.Errorf("page is required")
	}
	if a.Outcome == "" {
		return fmt.Errorf("outcome is required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO upload_attempts (
	run_id,
	page,
	attempt,
	outcome,
	asset_id,
	last_error,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		a.RunID,
		a.Page,
		a.Number,
		string(a.Outcome),
		a.AssetID,
		a.Error,
		a.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// Attempts lists the attempts for page, oldest first.
func (s *SQLite) Attempts(ctx context.Context, page string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, page, attempt, outcome, asset_id, last_error, created_at
FROM upload_attempts
WHERE page = ?
ORDER BY created_at ASC, id ASC
`, page)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a         Attempt
			outcome   string
			createdAt int64
		)
		if err := rows.Scan(&a.RunID, &a.Page, &a.Number, &outcome, &a.AssetID, &a.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Outcome = Outcome(outcome)
		a.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

var _ Ledger = (*SQLite)(nil)
