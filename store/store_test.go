// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/db"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
	"github.com/danielhkuo/facility-vision/testutil"
)

// clock hands out strictly increasing times.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func payload(name string, rate int) submission.Payload {
	return submission.Payload{
		Respondent: submission.Respondent{Name: name, Email: strings.ToLower(name) + "@example.com", Role: "Coach"},
		Responses: response.Map{
			"vision_purpose":   response.Single{}.Select("Performance training"),
			"perf_priorities":  response.Rank{}.Toggle("Speed", 3),
			"space_allocation": response.Percentage{}.Set("Clinic", 40).Set("Turf and field", 60),
		},
		CompletionRate: rate,
		SubmittedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type backend struct {
	name  string
	store Store
	// corrupt writes an undecodable record under id, newer than everything else.
	corrupt func(t *testing.T, id string)
}

func backends(t *testing.T) []backend {
	t.Helper()
	cat := catalog.Default()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	conn := testutil.SetupTestDB(t)
	sqlStore := NewSQL(conn, db.SQLite, cat)
	sqlStore.now = (&clock{t: start}).now

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	redisStore := NewRedis(client, cat)
	redisStore.now = (&clock{t: start}).now

	return []backend{
		{
			name:  "sqlite",
			store: sqlStore,
			corrupt: func(t *testing.T, id string) {
				_, err := conn.Exec(`INSERT INTO submission (id, stored_at_ns, payload) VALUES (?, ?, ?)`,
					id, start.Add(time.Hour).UnixNano(), "{not json")
				require.NoError(t, err)
			},
		},
		{
			name:  "redis",
			store: redisStore,
			corrupt: func(t *testing.T, id string) {
				require.NoError(t, mr.Set(submissionKey(id), "{not json"))
				_, err := mr.ZAdd(indexKey, float64(start.Add(time.Hour).UnixMilli()), id)
				require.NoError(t, err)
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			in := payload("Alice", 88)

			stored, err := b.store.Put(ctx, in)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(stored.ID, "sub_"), stored.ID)
			assert.False(t, stored.StoredAt.IsZero())

			got, err := b.store.Get(ctx, stored.ID)
			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
			assert.True(t, stored.StoredAt.Equal(got.StoredAt))
			assert.Equal(t, in.Respondent, got.Respondent)
			assert.Equal(t, in.CompletionRate, got.CompletionRate)
			assert.Equal(t, in.Responses, got.Responses)
			assert.True(t, in.SubmittedAt.Equal(got.SubmittedAt))

			_, err = b.store.Get(ctx, "sub_missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			var ids []string
			for _, name := range []string{"First", "Second", "Third"} {
				s, err := b.store.Put(ctx, payload(name, 50))
				require.NoError(t, err)
				ids = append(ids, s.ID)
			}

			all, err := b.store.List(ctx, 100, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

			page, err := b.store.List(ctx, 1, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, ids[1], page[0].ID)

			empty, err := b.store.List(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, empty)
			assert.NotNil(t, empty)

			none, err := b.store.List(ctx, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, none)

			n, err := b.store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			keep, err := b.store.Put(ctx, payload("Keep", 100))
			require.NoError(t, err)
			drop, err := b.store.Put(ctx, payload("Drop", 10))
			require.NoError(t, err)

			require.NoError(t, b.store.Delete(ctx, drop.ID))
			require.NoError(t, b.store.Delete(ctx, drop.ID), "deleting twice is fine")
			require.NoError(t, b.store.Delete(ctx, "sub_never_existed"))

			_, err = b.store.Get(ctx, drop.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := b.store.List(ctx, 100, 0)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, keep.ID, all[0].ID)

			n, err := b.store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestStoreSkipsUnreadable(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			good, err := b.store.Put(ctx, payload("Good", 70))
			require.NoError(t, err)
			b.corrupt(t, "sub_corrupt")

			all, err := b.store.List(ctx, 100, 0)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, good.ID, all[0].ID)
		})
	}
}

func TestUnconfigured(t *testing.T) {
	ctx := context.Background()
	var s Store = Unconfigured{}

	stored, err := s.Put(ctx, payload("Alice", 100))
	require.NoError(t, err)
	assert.Empty(t, stored.ID)

	list, err := s.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, s.Delete(ctx, "sub_x"))
	_, err = s.Get(ctx, "sub_x")
	assert.ErrorIs(t, err, ErrNotFound)
}
