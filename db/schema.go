// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL dialects. Each is also the database/sql driver name.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to a database of the given dialect and verifies the
// connection.
func Open(dialect, url string) (*sql.DB, error) {
	if dialect != Postgres && dialect != SQLite {
		return nil, fmt.Errorf("unsupported database type %q", dialect)
	}
	conn, err := sql.Open(dialect, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		// One writer at a time keeps SQLite from returning SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Rebind rewrites ? placeholders to $1, $2, ... for Postgres.
func Rebind(dialect, query string) string {
	if dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const postgresSchema = `
-- Archived submissions
CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    stored_at_ns BIGINT NOT NULL,
    payload JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_stored_at ON submission(stored_at_ns DESC, id DESC);
`

const sqliteSchema = `
-- Archived submissions
CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    stored_at_ns INTEGER NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_stored_at ON submission(stored_at_ns DESC, id DESC);
`
