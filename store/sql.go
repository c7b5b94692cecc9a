// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/db"
	"github.com/danielhkuo/facility-vision/submission"
)

// SQL keeps submissions in the submission table created by db.CreateSchema.
type SQL struct {
	db      *sql.DB
	dialect string
	cat     *catalog.Catalog
	now     func() time.Time
}

func NewSQL(conn *sql.DB, dialect string, cat *catalog.Catalog) *SQL {
	return &SQL{db: conn, dialect: dialect, cat: cat, now: time.Now}
}

func (s *SQL) q(query string) string {
	return db.Rebind(s.dialect, query)
}

func (s *SQL) Put(ctx context.Context, p submission.Payload) (submission.Stored, error) {
	stored, err := stamp(p, s.now())
	if err != nil {
		return submission.Stored{}, err
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to encode submission: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO submission (id, stored_at_ns, payload)
		VALUES (?, ?, ?)
	`), stored.ID, stored.StoredAt.UnixNano(), string(data))
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to store submission: %w", err)
	}
	return stored, nil
}

func (s *SQL) List(ctx context.Context, limit, offset int) ([]submission.Stored, error) {
	out := []submission.Stored{}
	if limit <= 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, payload FROM submission
		ORDER BY stored_at_ns DESC, id DESC
		LIMIT ? OFFSET ?
	`), limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		stored, err := submission.DecodeStored([]byte(payload), s.cat)
		if err != nil {
			slog.Warn("skipping unreadable submission", "id", id, "error", err)
			continue
		}
		out = append(out, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return out, nil
}

func (s *SQL) Get(ctx context.Context, id string) (submission.Stored, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT payload FROM submission WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return submission.Stored{}, ErrNotFound
	}
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission.DecodeStored([]byte(payload), s.cat)
}

func (s *SQL) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM submission WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

func (s *SQL) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submission`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}
