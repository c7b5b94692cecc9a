// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/submission"
)

const indexKey = "submissions:all"

func submissionKey(id string) string {
	return "submission:" + id
}

// Redis keeps each submission as a JSON string and indexes ids in a sorted
// set scored by store time.
type Redis struct {
	client redis.UniversalClient
	cat    *catalog.Catalog
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient, cat *catalog.Catalog) *Redis {
	return &Redis{client: client, cat: cat, now: time.Now}
}

// OpenRedis connects using a redis:// URL.
func OpenRedis(ctx context.Context, url string, cat *catalog.Catalog) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedis(client, cat), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Put(ctx context.Context, p submission.Payload) (submission.Stored, error) {
	stored, err := stamp(p, r.now())
	if err != nil {
		return submission.Stored{}, err
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to encode submission: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, submissionKey(stored.ID), data, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(stored.StoredAt.UnixMilli()), Member: stored.ID})
		return nil
	})
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to store submission: %w", err)
	}
	return stored, nil
}

func (r *Redis) List(ctx context.Context, limit, offset int) ([]submission.Stored, error) {
	out := []submission.Stored{}
	if limit <= 0 {
		return out, nil
	}
	offset = max(offset, 0)

	ids, err := r.client.ZRevRange(ctx, indexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = submissionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.Warn("submission indexed but missing", "id", ids[i])
			continue
		}
		stored, err := submission.DecodeStored([]byte(raw), r.cat)
		if err != nil {
			slog.Warn("skipping unreadable submission", "id", ids[i], "error", err)
			continue
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *Redis) Get(ctx context.Context, id string) (submission.Stored, error) {
	raw, err := r.client.Get(ctx, submissionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return submission.Stored{}, ErrNotFound
	}
	if err != nil {
		return submission.Stored{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission.DecodeStored(raw, r.cat)
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, submissionKey(id))
		pipe.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

func (r *Redis) Count(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return int(n), nil
}
