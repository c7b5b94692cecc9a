// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/autosave"
	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/progress"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
)

// Screen is the step of the flow the respondent is on.
type Screen string

const (
	Welcome      Screen = "welcome"
	Questions    Screen = "questions"
	Review       Screen = "review"
	Confirmation Screen = "confirmation"
)

var (
	ErrWrongScreen       = errors.New("action not available on this screen")
	ErrNothingToResume   = errors.New("no saved session to resume")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrTypeMismatch      = errors.New("response does not match question type")
	ErrInvalidResponse   = errors.New("response not valid for question")
	ErrSectionOutOfRange = errors.New("section out of range")
	// ErrIncomplete asks for confirmation before submitting with
	// unanswered questions. Submitting again with confirm set proceeds.
	ErrIncomplete = errors.New("some questions are unanswered")
)

// ValidationError lists problems with the respondent details, keyed by
// field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid respondent: " + strings.Join(parts, "; ")
}

// Machine owns one respondent's session: the current screen, answers and
// section. All methods are safe to call from multiple goroutines; edits
// are applied one at a time.
type Machine struct {
	cat      *catalog.Catalog
	pipeline *submission.Pipeline
	saver    *autosave.Saver
	now      func() time.Time

	mu         sync.Mutex
	screen     Screen
	respondent submission.Respondent
	responses  response.Map
	section    int
	resumable  *autosave.State
	submitting bool
	lastError  string
	warning    string
}

// New creates a machine on the welcome screen. saver may be nil to run
// without autosave; when set, a previously saved session is offered for
// resuming.
func New(cat *catalog.Catalog, pipeline *submission.Pipeline, saver *autosave.Saver) *Machine {
	m := &Machine{
		cat:       cat,
		pipeline:  pipeline,
		saver:     saver,
		now:       time.Now,
		screen:    Welcome,
		responses: response.Map{},
	}
	if saver != nil {
		if saved, ok := saver.Load(); ok {
			m.resumable = &saved
			slog.Info("saved session found", "name", saved.Respondent.Name)
		}
	}
	return m
}

func (m *Machine) Screen() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// Resumable returns the respondent of a saved session that can be resumed.
func (m *Machine) Resumable() (submission.Respondent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resumable == nil {
		return submission.Respondent{}, false
	}
	return m.resumable.Respondent, true
}

// Begin starts a fresh session. Invalid details leave the machine untouched.
func (m *Machine) Begin(name, email, role string) error {
	name, email, role = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(role)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required"
	}
	if email == "" {
		fields["email"] = "Email is required"
	} else if !submission.ValidEmail(email) {
		fields["email"] = "Enter a valid email"
	}
	if role == "" {
		fields["role"] = "Role / Title is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Welcome {
		return ErrWrongScreen
	}
	m.respondent = submission.Respondent{Name: name, Email: email, Role: role}
	m.responses = response.Map{}
	m.section = 0
	m.resumable = nil
	m.screen = Questions
	m.persist()
	return nil
}

// Resume restores the saved session exactly as it was saved.
func (m *Machine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Welcome {
		return ErrWrongScreen
	}
	if m.resumable == nil {
		return ErrNothingToResume
	}
	saved := m.resumable
	m.respondent = saved.Respondent
	m.responses = saved.Responses.Clone()
	m.section = saved.CurrentSection
	m.resumable = nil
	m.screen = Questions
	return nil
}

func (m *Machine) Respondent() submission.Respondent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.respondent
}

// Responses returns a copy of the current answers.
func (m *Machine) Responses() response.Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responses.Clone()
}

// Response returns the answer to one question, or nil.
func (m *Machine) Response(questionID string) response.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responses[questionID]
}

// CurrentSection returns the index of the section being answered.
func (m *Machine) CurrentSection() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.section
}

// SetResponse stores an answer. A nil r clears the question.
func (m *Machine) SetResponse(questionID string, r response.Response) error {
	return m.Update(questionID, func(response.Response) response.Response { return r })
}

// Update applies edit to the current answer of a question. edit receives
// the stored answer, or an empty one of the question's type.
func (m *Machine) Update(questionID string, edit func(response.Response) response.Response) error {
	q, ok := m.cat.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Questions && m.screen != Review {
		return ErrWrongScreen
	}

	cur := m.responses[questionID]
	if cur == nil {
		cur = response.Empty(q.Type)
	}
	next := edit(cur)
	if next == nil {
		delete(m.responses, questionID)
		m.persist()
		return nil
	}
	if err := check(q, next); err != nil {
		return err
	}

	m.responses[questionID] = next
	m.persist()
	return nil
}

func check(q catalog.Question, r response.Response) error {
	if r.Type() != q.Type {
		return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, q.ID, q.Type, r.Type())
	}
	switch v := r.(type) {
	case response.Single:
		if v.Selected != "" {
			return checkOption(q, v.Selected)
		}
	case response.Multi:
		if err := checkOptions(q, v.Selected); err != nil {
			return err
		}
		if picked := len(v.Selected) - countOther(v.Selected); q.MaxSelections > 0 && picked > q.MaxSelections {
			return fmt.Errorf("%w: %s allows %d choices", ErrInvalidResponse, q.ID, q.MaxSelections)
		}
	case response.Rank:
		if len(v.Ranked) > q.RankSlots {
			return fmt.Errorf("%w: %s allows %d ranks", ErrInvalidResponse, q.ID, q.RankSlots)
		}
		for _, opt := range v.Ranked {
			if opt == response.OtherSentinel || !slices.Contains(q.Options, opt) {
				return fmt.Errorf("%w: %s has no option %q", ErrInvalidResponse, q.ID, opt)
			}
		}
		if hasDuplicate(v.Ranked) {
			return fmt.Errorf("%w: %s ranks an option twice", ErrInvalidResponse, q.ID)
		}
	case response.Percentage:
		zones := make([]string, 0, len(v.Allocations))
		for _, a := range v.Allocations {
			if !slices.Contains(q.Zones, a.Zone) {
				return fmt.Errorf("%w: unknown zone %q", ErrInvalidResponse, a.Zone)
			}
			if a.Value < 1 || a.Value > 100 {
				return fmt.Errorf("%w: %s must be 1 to 100, got %d", ErrInvalidResponse, a.Zone, a.Value)
			}
			zones = append(zones, a.Zone)
		}
		if hasDuplicate(zones) {
			return fmt.Errorf("%w: %s allocates a zone twice", ErrInvalidResponse, q.ID)
		}
	}
	return nil
}

// checkOption accepts a listed option, or Other when the question offers it.
func checkOption(q catalog.Question, opt string) error {
	if opt == response.OtherSentinel && q.HasOther {
		return nil
	}
	if opt != response.OtherSentinel && slices.Contains(q.Options, opt) {
		return nil
	}
	return fmt.Errorf("%w: %s has no option %q", ErrInvalidResponse, q.ID, opt)
}

func checkOptions(q catalog.Question, opts []string) error {
	for _, opt := range opts {
		if err := checkOption(q, opt); err != nil {
			return err
		}
	}
	if hasDuplicate(opts) {
		return fmt.Errorf("%w: %s selects an option twice", ErrInvalidResponse, q.ID)
	}
	return nil
}

func countOther(opts []string) int {
	if slices.Contains(opts, response.OtherSentinel) {
		return 1
	}
	return 0
}

func hasDuplicate(list []string) bool {
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}

// Next moves to the following section, or to review from the last one.
func (m *Machine) Next() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Questions {
		return ErrWrongScreen
	}
	if m.section < len(m.cat.Sections)-1 {
		m.section++
	} else {
		m.screen = Review
	}
	m.persist()
	return nil
}

// Prev moves to the previous section. It does nothing on the first section.
func (m *Machine) Prev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Questions {
		return ErrWrongScreen
	}
	if m.section > 0 {
		m.section--
		m.persist()
	}
	return nil
}

// GoTo jumps to any section from questions or review.
func (m *Machine) GoTo(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Questions && m.screen != Review {
		return ErrWrongScreen
	}
	return m.jump(index)
}

// Edit leaves review for the given section.
func (m *Machine) Edit(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Review {
		return ErrWrongScreen
	}
	return m.jump(index)
}

// Back returns from review to the section last shown.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != Review {
		return ErrWrongScreen
	}
	m.screen = Questions
	m.persist()
	return nil
}

func (m *Machine) jump(index int) error {
	if index < 0 || index >= len(m.cat.Sections) {
		return fmt.Errorf("%w: %d", ErrSectionOutOfRange, index)
	}
	m.section = index
	m.screen = Questions
	m.persist()
	return nil
}

// Submitting reports whether a submission is in flight.
func (m *Machine) Submitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// Submit freezes the session and sends it. With unanswered questions it
// returns ErrIncomplete unless confirmIncomplete is set. On success the
// saved session is cleared and the machine moves to confirmation; on
// failure everything is kept and the returned Result carries a message
// for the respondent.
func (m *Machine) Submit(ctx context.Context, confirmIncomplete bool) (submission.Result, error) {
	m.mu.Lock()
	if m.screen != Review {
		m.mu.Unlock()
		return submission.Result{}, ErrWrongScreen
	}
	if m.submitting {
		m.mu.Unlock()
		return submission.Result{}, submission.ErrInFlight
	}
	if missing := len(progress.Unanswered(m.cat, m.responses)); missing > 0 && !confirmIncomplete {
		m.mu.Unlock()
		return submission.Result{}, fmt.Errorf("%w: %d left", ErrIncomplete, missing)
	}
	payload := submission.Freeze(m.respondent, m.responses, m.cat, m.now())
	m.submitting = true
	m.lastError = ""
	m.mu.Unlock()

	res, err := m.pipeline.Submit(ctx, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false
	if err != nil {
		return submission.Result{}, err
	}
	if !res.Success {
		m.lastError = res.Error
		return res, nil
	}

	if m.saver != nil {
		m.saver.Clear()
	}
	m.warning = res.Warning
	m.screen = Confirmation
	slog.Info("questionnaire submitted", "email", payload.Respondent.Email, "completion_rate", payload.CompletionRate)
	return res, nil
}

// LastError is the message from the most recent failed submission.
func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Warning is the partial-delivery note from a successful submission.
func (m *Machine) Warning() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warning
}

// Export renders the session as the indented payload a submission would
// send, so a respondent can email it by hand when submitting fails.
func (m *Machine) Export() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return json.MarshalIndent(submission.Freeze(m.respondent, m.responses, m.cat, m.now()), "", "  ")
}

// StartOver discards the session, saved or not, and returns to welcome.
func (m *Machine) StartOver() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saver != nil {
		m.saver.Clear()
	}
	m.respondent = submission.Respondent{}
	m.responses = response.Map{}
	m.section = 0
	m.resumable = nil
	m.lastError = ""
	m.warning = ""
	m.screen = Welcome
}

// Close writes any pending autosave.
func (m *Machine) Close() {
	if m.saver != nil {
		m.saver.Flush()
	}
}

// persist schedules an autosave. Callers hold mu.
func (m *Machine) persist() {
	if m.saver == nil || (m.screen != Questions && m.screen != Review) {
		return
	}
	m.saver.Schedule(autosave.State{
		Respondent:     m.respondent,
		Responses:      m.responses.Clone(),
		CurrentSection: m.section,
	})
}
