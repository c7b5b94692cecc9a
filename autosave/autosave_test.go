// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package autosave

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
)

// countingStore records every Set.
type countingStore struct {
	*MemoryStore
	mu   sync.Mutex
	sets [][]byte
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func (c *countingStore) Set(key string, value []byte) error {
	c.mu.Lock()
	c.sets = append(c.sets, value)
	c.mu.Unlock()
	return c.MemoryStore.Set(key, value)
}

func (c *countingStore) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

// brokenStore fails every operation, like a full or unavailable disk.
type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, error) { return nil, errors.New("unavailable") }
func (brokenStore) Set(string, []byte) error   { return errors.New("quota exceeded") }
func (brokenStore) Remove(string) error        { return errors.New("unavailable") }

func sampleState() State {
	return State{
		Respondent: submission.Respondent{Name: "Alice", Email: "alice@example.com", Role: "Owner"},
		Responses: response.Map{
			"vision_purpose":   response.Single{Selected: "Longevity and healthspan"},
			"vision_members":   response.Multi{}.Toggle("Youth athletes", 3).SetOther("Coaches"),
			"perf_priorities":  response.Rank{}.Toggle("Aquatic training", 3),
			"space_allocation": response.Percentage{}.Set("Clinic", 40).Set("Training floor", 60),
			"biz_timeline":     response.Text{Text: "Q3 2027"},
		},
		CurrentSection: 3,
	}
}

func TestStores(t *testing.T) {
	files, err := NewFileStore(filepath.Join(t.TempDir(), "progress"))
	require.NoError(t, err)
	lite, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	defer lite.Close()

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   files,
		"sqlite": lite,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(Key)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(Key, []byte(`{"a":1}`)))
			require.NoError(t, store.Set(Key, []byte(`{"a":2}`)))
			got, err := store.Get(Key)
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(got))

			require.NoError(t, store.Remove(Key))
			require.NoError(t, store.Remove(Key), "removing twice is fine")
			_, err = store.Get(Key)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestProgressRoundTrip(t *testing.T) {
	cat := catalog.Default()
	p := NewProgress(NewMemoryStore(), cat)
	fixed := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	want := sampleState()
	p.Save(want)

	got, ok := p.Load()
	require.True(t, ok)
	assert.Equal(t, fixed, got.LastUpdated)

	want.LastUpdated = got.LastUpdated
	assert.Equal(t, want, got)
}

func TestProgressLoadDegrades(t *testing.T) {
	cat := catalog.Default()

	store := NewMemoryStore()
	p := NewProgress(store, cat)
	_, ok := p.Load()
	assert.False(t, ok, "absent")

	require.NoError(t, store.Set(Key, []byte("{not json")))
	_, ok = p.Load()
	assert.False(t, ok, "corrupt")

	require.NoError(t, store.Set(Key, []byte(`{"responses":{"vision_members":{"selected":"x"}}}`)))
	_, ok = p.Load()
	assert.False(t, ok, "wrong response shape")

	broken := NewProgress(brokenStore{}, cat)
	broken.Save(sampleState())
	broken.Clear()
	_, ok = broken.Load()
	assert.False(t, ok, "unavailable store")
}

func TestProgressLoadResetsBadSection(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(Key, []byte(`{"respondent":{"name":"A"},"responses":{},"currentSection":99}`)))

	got, ok := NewProgress(store, catalog.Default()).Load()
	require.True(t, ok)
	assert.Equal(t, 0, got.CurrentSection)
	assert.Equal(t, "A", got.Respondent.Name)
}

func TestProgressClearIdempotent(t *testing.T) {
	store := NewMemoryStore()
	p := NewProgress(store, catalog.Default())
	p.Save(sampleState())

	p.Clear()
	_, ok := p.Load()
	assert.False(t, ok)

	p.Clear()
	_, ok = p.Load()
	assert.False(t, ok)
}

func TestSaverCollapsesBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newCountingStore()
	progress := NewProgress(store, catalog.Default())
	saver := NewSaver(progress, 50*time.Millisecond)

	state := sampleState()
	for i := 0; i < 10; i++ {
		state.CurrentSection = i % 6
		state.Responses = state.Responses.Clone()
		state.Responses["biz_timeline"] = response.Text{Text: time.Duration(i).String()}
		saver.Schedule(state)
	}
	assert.Equal(t, 0, store.writes(), "nothing written inside the quiet period")

	require.Eventually(t, func() bool { return store.writes() > 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.writes())

	got, ok := progress.Load()
	require.True(t, ok)
	assert.Equal(t, 9%6, got.CurrentSection)
	assert.Equal(t, response.Text{Text: time.Duration(9).String()}, got.Responses["biz_timeline"])
	assert.False(t, saver.Pending())
}

func TestSaverFlushWritesImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newCountingStore()
	saver := NewSaver(NewProgress(store, catalog.Default()), time.Hour)

	saver.Flush()
	assert.Equal(t, 0, store.writes(), "nothing pending")

	saver.Schedule(sampleState())
	assert.True(t, saver.Pending())
	saver.Flush()
	assert.Equal(t, 1, store.writes())
	assert.False(t, saver.Pending())
}

func TestSaverClearCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newCountingStore()
	progress := NewProgress(store, catalog.Default())
	saver := NewSaver(progress, 30*time.Millisecond)

	progress.Save(sampleState())
	saver.Schedule(sampleState())
	saver.Clear()
	saver.Clear()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.writes(), "the cancelled save never lands")
	_, ok := progress.Load()
	assert.False(t, ok)
}

func TestSaverCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newCountingStore()
	saver := NewSaver(NewProgress(store, catalog.Default()), 20*time.Millisecond)
	saver.Schedule(sampleState())
	saver.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, store.writes())
}
