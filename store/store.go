// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/facility-vision/submission"
)

var ErrNotFound = errors.New("submission not found")

// Store archives submissions.
type Store interface {
	// Put stores a payload under a new id.
	Put(ctx context.Context, p submission.Payload) (submission.Stored, error)
	// List returns up to limit submissions, newest first, skipping offset.
	List(ctx context.Context, limit, offset int) ([]submission.Stored, error)
	Get(ctx context.Context, id string) (submission.Stored, error)
	// Delete removes a submission. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return "sub_" + id.String(), nil
}

func stamp(p submission.Payload, now time.Time) (submission.Stored, error) {
	id, err := newID()
	if err != nil {
		return submission.Stored{}, err
	}
	return submission.Stored{Payload: p, ID: id, StoredAt: now.UTC()}, nil
}

// Unconfigured is used when no database is configured.
type Unconfigured struct{}

func (Unconfigured) Put(_ context.Context, p submission.Payload) (submission.Stored, error) {
	return submission.Stored{Payload: p}, nil
}

func (Unconfigured) List(context.Context, int, int) ([]submission.Stored, error) {
	return []submission.Stored{}, nil
}

func (Unconfigured) Get(context.Context, string) (submission.Stored, error) {
	return submission.Stored{}, ErrNotFound
}

func (Unconfigured) Delete(context.Context, string) error { return nil }

func (Unconfigured) Count(context.Context) (int, error) { return 0, nil }
