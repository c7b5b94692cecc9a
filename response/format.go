// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/facility-vision/catalog"
)

// NotAnswered is rendered for every unanswered question.
const NotAnswered = "— Not answered —"

// Style controls how multi-value answers are joined.
type Style int

const (
	// Compact renders one line with comma separated values.
	Compact Style = iota
	// List renders one value per line.
	List
	// Detailed is List plus square footage and a total for percentages.
	Detailed
)

// Formatter renders answers as text. Area is the square footage a 100%
// allocation represents; only Detailed uses it.
type Formatter struct {
	Style Style
	Area  int
}

// Format renders r with the given style.
func Format(r Response, t catalog.QuestionType, style Style) string {
	return Formatter{Style: style, Area: catalog.DefaultFacilityArea}.Format(r, t)
}

func (f Formatter) Format(r Response, t catalog.QuestionType) string {
	if !IsAnswered(r, t) {
		return NotAnswered
	}
	switch v := r.(type) {
	case Single:
		if v.IsOther() {
			if v.Other != "" {
				return v.Other
			}
			return "Other"
		}
		return v.Selected
	case Multi:
		items := make([]string, 0, len(v.Selected))
		for _, s := range v.Selected {
			if s != OtherSentinel {
				items = append(items, s)
			}
		}
		if v.IsOther() {
			if v.Other != "" {
				items = append(items, "Other: "+v.Other)
			} else {
				items = append(items, "Other")
			}
		}
		if f.Style == Compact {
			return strings.Join(items, ", ")
		}
		return bullets(items)
	case Text:
		return strings.TrimSpace(v.Text)
	case Rank:
		items := make([]string, len(v.Ranked))
		for i, item := range v.Ranked {
			if f.Style == Compact {
				items[i] = fmt.Sprintf("#%d %s", i+1, item)
			} else {
				items[i] = fmt.Sprintf("%d. %s", i+1, item)
			}
		}
		if f.Style == Compact {
			return strings.Join(items, ", ")
		}
		return strings.Join(items, "\n")
	case Percentage:
		return f.percentage(v)
	default:
		return NotAnswered
	}
}

func (f Formatter) percentage(p Percentage) string {
	items := make([]string, 0, len(p.Allocations)+1)
	for _, a := range p.Allocations {
		if a.Value <= 0 {
			continue
		}
		item := a.Zone + ": " + strconv.Itoa(a.Value) + "%"
		if f.Style == Detailed {
			item += " (~" + humanize.Comma(int64(SquareFeet(a.Value, f.Area))) + " SF)"
		}
		items = append(items, item)
	}
	switch f.Style {
	case Compact:
		return strings.Join(items, ", ")
	case Detailed:
		items = append(items, "Total: "+strconv.Itoa(p.Total())+"%")
	}
	return strings.Join(items, "\n")
}

// SquareFeet converts a percentage of area to rounded square feet.
func SquareFeet(percent, area int) int {
	return (percent*area + 50) / 100
}

// AllocationStatus describes a percentage total for display: complete,
// remaining or over-allocated.
func AllocationStatus(p Percentage) string {
	switch total := p.Total(); {
	case total == 100:
		return "100% allocated"
	case total > 100:
		return fmt.Sprintf("Over by %d%%, reduce some zones", p.Over())
	default:
		return fmt.Sprintf("%d%% remaining", p.Remaining())
	}
}

func bullets(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "• " + s
	}
	return strings.Join(out, "\n")
}
