// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"slices"
	"strconv"
	"strings"
)

// Step is the increment used by the percentage +/- controls.
const Step = 5

// Select picks a predefined option. Text typed for Other is kept so
// switching back to Other restores it.
func (s Single) Select(option string) Single {
	return Single{Selected: option, Other: s.Other}
}

// SelectOther picks the free-text option, keeping any text typed before.
func (s Single) SelectOther() Single {
	return Single{Selected: OtherSentinel, Other: s.Other}
}

// SetOther records free text, which also selects the Other option.
func (s Single) SetOther(text string) Single {
	return Single{Selected: OtherSentinel, Other: text}
}

func (s Single) IsOther() bool {
	return s.Selected == OtherSentinel
}

// Toggle adds or removes option. When limit > 0 and limit predefined options are
// already selected, adding is ignored. The sentinel is routed to ToggleOther.
func (m Multi) Toggle(option string, limit int) Multi {
	if option == OtherSentinel {
		return m.ToggleOther()
	}
	if slices.Contains(m.Selected, option) {
		return Multi{Selected: without(m.Selected, option), Other: m.Other}
	}
	if limit > 0 && m.predefinedCount() >= limit {
		return m.clone()
	}
	return Multi{Selected: appendCopy(m.Selected, option), Other: m.Other}
}

// ToggleOther adds or removes the Other sentinel. Typed text survives.
func (m Multi) ToggleOther() Multi {
	if m.IsOther() {
		return Multi{Selected: without(m.Selected, OtherSentinel), Other: m.Other}
	}
	return Multi{Selected: appendCopy(m.Selected, OtherSentinel), Other: m.Other}
}

// SetOther records free text and makes sure Other is selected.
func (m Multi) SetOther(text string) Multi {
	out := Multi{Selected: slices.Clone(m.Selected), Other: text}
	if !m.IsOther() {
		out.Selected = append(out.Selected, OtherSentinel)
	}
	return out
}

func (m Multi) IsOther() bool {
	return slices.Contains(m.Selected, OtherSentinel)
}

func (m Multi) Contains(option string) bool {
	return slices.Contains(m.Selected, option)
}

func (m Multi) predefinedCount() int {
	n := 0
	for _, s := range m.Selected {
		if s != OtherSentinel {
			n++
		}
	}
	return n
}

func (m Multi) clone() Multi {
	return Multi{Selected: slices.Clone(m.Selected), Other: m.Other}
}

// Toggle ranks option in the next free slot, or removes it if already
// ranked. Later ranks shift up so there are never gaps.
func (r Rank) Toggle(option string, slots int) Rank {
	if slices.Contains(r.Ranked, option) {
		return Rank{Ranked: without(r.Ranked, option)}
	}
	if len(r.Ranked) >= slots {
		return Rank{Ranked: slices.Clone(r.Ranked)}
	}
	return Rank{Ranked: appendCopy(r.Ranked, option)}
}

// ClearSlot removes the entry at the 0-based index and compacts the rest.
func (r Rank) ClearSlot(index int) Rank {
	if index < 0 || index >= len(r.Ranked) {
		return Rank{Ranked: slices.Clone(r.Ranked)}
	}
	out := slices.Clone(r.Ranked)
	return Rank{Ranked: slices.Delete(out, index, index+1)}
}

// Position returns the 1-based rank of option, 0 when unranked.
func (r Rank) Position(option string) int {
	return slices.Index(r.Ranked, option) + 1
}

// Adjust moves zone by delta, clamped to [0,100].
func (p Percentage) Adjust(zone string, delta int) Percentage {
	return p.Set(zone, p.Allocations.Get(zone)+delta)
}

// Set assigns zone directly, clamped to [0,100]. Zero removes the zone.
func (p Percentage) Set(zone string, value int) Percentage {
	return Percentage{Allocations: p.Allocations.With(zone, value)}
}

// SetInput parses typed input for zone. Anything that is not an integer
// counts as 0.
func (p Percentage) SetInput(zone, input string) Percentage {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		v = 0
	}
	return p.Set(zone, v)
}

func (p Percentage) Total() int {
	return p.Allocations.Total()
}

// Over is how far the total exceeds 100. Over-allocation is allowed and
// only warned about.
func (p Percentage) Over() int {
	return max(0, p.Total()-100)
}

// Remaining is how much is left to allocate before reaching 100.
func (p Percentage) Remaining() int {
	return max(0, 100-p.Total())
}

func without(list []string, item string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}

func appendCopy(list []string, item string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}
