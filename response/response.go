// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"strings"

	"github.com/danielhkuo/facility-vision/catalog"
)

// OtherSentinel marks the free-text option inside Single.Selected and
// Multi.Selected. The paired Other field holds the typed text.
const OtherSentinel = "__other__"

// Response is one answer. The concrete type always matches the owning
// question's type: Single, Multi, Text, Rank or Percentage.
type Response interface {
	Type() catalog.QuestionType
	sealed()
}

// Single is a single-choice answer. An empty Selected means nothing chosen.
type Single struct {
	Selected string
	Other    string
}

// Multi is a multiple-choice answer. Selected keeps the order options were picked.
type Multi struct {
	Selected []string
	Other    string
}

type Text struct {
	Text string `json:"text"`
}

// Rank holds ranked options, position 1 first. It never holds more than the
// question's rankSlots entries and never repeats an entry.
type Rank struct {
	Ranked []string
}

// Percentage allocates shares of the facility to zones. Zones at 0 are never
// stored.
type Percentage struct {
	Allocations Allocations `json:"allocations"`
}

func (Single) Type() catalog.QuestionType     { return catalog.Single }
func (Multi) Type() catalog.QuestionType      { return catalog.Multi }
func (Text) Type() catalog.QuestionType       { return catalog.Text }
func (Rank) Type() catalog.QuestionType       { return catalog.Rank }
func (Percentage) Type() catalog.QuestionType { return catalog.Percentage }

func (Single) sealed()     {}
func (Multi) sealed()      {}
func (Text) sealed()       {}
func (Rank) sealed()       {}
func (Percentage) sealed() {}

// Map holds responses keyed by question id.
type Map map[string]Response

// Clone returns a copy of the map. Response values are never modified in
// place, so sharing them between copies is safe.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsAnswered reports whether r counts as an answer for a question of type t.
// A nil response, or one whose variant does not match t, is unanswered.
func IsAnswered(r Response, t catalog.QuestionType) bool {
	if r == nil || r.Type() != t {
		return false
	}
	switch v := r.(type) {
	case Single:
		return v.Selected != ""
	case Multi:
		return len(v.Selected) > 0
	case Text:
		return strings.TrimSpace(v.Text) != ""
	case Rank:
		return len(v.Ranked) > 0
	case Percentage:
		for _, a := range v.Allocations {
			if a.Value > 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Empty returns the zero answer for a question type, or nil for an unknown type.
func Empty(t catalog.QuestionType) Response {
	switch t {
	case catalog.Single:
		return Single{}
	case catalog.Multi:
		return Multi{}
	case catalog.Text:
		return Text{}
	case catalog.Rank:
		return Rank{}
	case catalog.Percentage:
		return Percentage{}
	default:
		return nil
	}
}
