// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package autosave

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long edits must pause before a save.
const DefaultQuietPeriod = 500 * time.Millisecond

// Saver persists the latest state after a quiet period. Each Schedule
// cancels the pending save and starts the period over, so a burst of edits
// produces one write holding the last state.
type Saver struct {
	progress *Progress
	quiet    time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *State
	gen     uint64

	// writeMu orders timer writes against Flush and Clear so a save that
	// already fired cannot land after a Clear.
	writeMu sync.Mutex
}

func NewSaver(p *Progress, quiet time.Duration) *Saver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Saver{progress: p, quiet: quiet}
}

// Schedule replaces any pending save with s.
func (s *Saver) Schedule(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = &state
	s.timer = time.AfterFunc(s.quiet, func() { s.fire(gen) })
}

func (s *Saver) fire(gen uint64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, ok := s.take(gen)
	if ok {
		s.progress.Save(state)
	}
}

// take removes the pending state if it still belongs to gen. A zero gen
// takes whatever is pending.
func (s *Saver) take(gen uint64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (gen != 0 && gen != s.gen) || s.pending == nil {
		return State{}, false
	}
	state := *s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	return state, true
}

// Pending reports whether a save is waiting for its quiet period.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes the pending state now, if any.
func (s *Saver) Flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if state, ok := s.take(0); ok {
		s.progress.Save(state)
	}
}

// Cancel drops the pending save without writing.
func (s *Saver) Cancel() {
	s.take(0)
}

// Clear drops the pending save and removes anything saved. It returns once
// the store is cleared and is safe to call repeatedly.
func (s *Saver) Clear() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.take(0)
	s.progress.Clear()
}

// Load returns the saved state, if any.
func (s *Saver) Load() (State, bool) {
	return s.progress.Load()
}
