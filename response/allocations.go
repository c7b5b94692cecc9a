// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

// Allocation is one zone's share in percent.
type Allocation struct {
	Zone  string
	Value int
}

// Allocations is an insertion-ordered zone → percent mapping. Values are in
// 1..100; setting a zone to 0 removes it.
type Allocations []Allocation

// Get returns the zone's value, 0 when absent.
func (a Allocations) Get(zone string) int {
	for _, e := range a {
		if e.Zone == zone {
			return e.Value
		}
	}
	return 0
}

// With returns a copy with zone set to value after clamping to [0,100].
// A zone keeps its position when updated and is appended when new.
func (a Allocations) With(zone string, value int) Allocations {
	value = clamp(value)
	out := make(Allocations, 0, len(a)+1)
	found := false
	for _, e := range a {
		if e.Zone != zone {
			out = append(out, e)
			continue
		}
		found = true
		if value > 0 {
			out = append(out, Allocation{Zone: zone, Value: value})
		}
	}
	if !found && value > 0 {
		out = append(out, Allocation{Zone: zone, Value: value})
	}
	return out
}

// Total sums all values. It may exceed 100.
func (a Allocations) Total() int {
	total := 0
	for _, e := range a {
		total += e.Value
	}
	return total
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
