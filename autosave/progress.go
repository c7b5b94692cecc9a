// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package autosave

import (
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
)

// Key is the single key a session is saved under.
const Key = "facility_vision_progress"

// State is an in-progress session as persisted locally.
type State struct {
	Respondent     submission.Respondent `json:"respondent"`
	Responses      response.Map          `json:"responses"`
	CurrentSection int                   `json:"currentSection"`
	LastUpdated    time.Time             `json:"lastUpdated"`
}

type stateJSON struct {
	Respondent     submission.Respondent         `json:"respondent"`
	Responses      map[string]json.RawMessage `json:"responses"`
	CurrentSection int                           `json:"currentSection"`
	LastUpdated    time.Time                     `json:"lastUpdated"`
}

// Progress saves and restores a State. Every failure degrades to "nothing
// saved"; none reach the caller.
type Progress struct {
	store Store
	cat   *catalog.Catalog
	now   func() time.Time
}

func NewProgress(store Store, cat *catalog.Catalog) *Progress {
	return &Progress{store: store, cat: cat, now: time.Now}
}

// Save writes s, stamping LastUpdated.
func (p *Progress) Save(s State) {
	s.LastUpdated = p.now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		slog.Warn("could not encode progress", "error", err)
		return
	}
	if err := p.store.Set(Key, data); err != nil {
		slog.Warn("could not save progress", "error", err)
	}
}

// Load returns the saved state. Missing, unreadable or corrupt data all
// report false.
func (p *Progress) Load() (State, bool) {
	data, err := p.store.Get(Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("could not read saved progress", "error", err)
		}
		return State{}, false
	}

	var w stateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		slog.Warn("discarding corrupt saved progress", "error", err)
		return State{}, false
	}
	responses, _, err := response.DecodeMap(w.Responses, p.cat)
	if err != nil {
		slog.Warn("discarding corrupt saved progress", "error", err)
		return State{}, false
	}

	section := w.CurrentSection
	if section < 0 || section >= len(p.cat.Sections) {
		section = 0
	}
	return State{
		Respondent:     w.Respondent,
		Responses:      responses,
		CurrentSection: section,
		LastUpdated:    w.LastUpdated,
	}, true
}

// Clear removes the saved state. Clearing when nothing is saved is a no-op.
func (p *Progress) Clear() {
	if err := p.store.Remove(Key); err != nil {
		slog.Warn("could not clear saved progress", "error", err)
	}
}
