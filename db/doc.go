// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the submission archive schema.

# Dialects

Two dialects are supported, Postgres (github.com/lib/pq) and SQLite
(modernc.org/sqlite). Open registers both drivers:

	conn, err := db.Open(db.Postgres, "postgres://...")

Queries are written with ? placeholders and passed through Rebind, which
rewrites them to $n for Postgres.

# Schema Creation

	if err := db.CreateSchema(conn, db.Postgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and index.

# Tables

  - submission: one row per archived submission. payload holds the
    stored submission JSON (JSONB on Postgres); stored_at_ns orders
    listings newest first.
*/
package db
