// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import (
	"math"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
)

// SectionComplete reports whether every question in the section is answered.
func SectionComplete(s catalog.Section, responses response.Map) bool {
	return AnsweredInSection(s, responses) == len(s.Questions)
}

// AnsweredInSection counts answered questions in one section, for the live
// "x/y" indicator.
func AnsweredInSection(s catalog.Section, responses response.Map) int {
	n := 0
	for _, q := range s.Questions {
		if response.IsAnswered(responses[q.ID], q.Type) {
			n++
		}
	}
	return n
}

// CompletedSections returns the indexes of all complete sections.
func CompletedSections(cat *catalog.Catalog, responses response.Map) map[int]bool {
	done := make(map[int]bool)
	for i, s := range cat.Sections {
		if SectionComplete(s, responses) {
			done[i] = true
		}
	}
	return done
}

// OverallPercent is the share of complete sections, used by navigation.
func OverallPercent(cat *catalog.Catalog, responses response.Map) int {
	if len(cat.Sections) == 0 {
		return 0
	}
	return percent(len(CompletedSections(cat, responses)), len(cat.Sections))
}

// AnsweredCount counts answered questions across the catalog.
func AnsweredCount(cat *catalog.Catalog, responses response.Map) int {
	n := 0
	for _, s := range cat.Sections {
		n += AnsweredInSection(s, responses)
	}
	return n
}

// CompletionRate is the question-level answer density stored with a
// submission. It generally differs from OverallPercent.
func CompletionRate(cat *catalog.Catalog, responses response.Map) int {
	total := cat.TotalQuestions()
	if total == 0 {
		return 0
	}
	return percent(AnsweredCount(cat, responses), total)
}

// Unanswered lists unanswered questions in catalog order.
func Unanswered(cat *catalog.Catalog, responses response.Map) []catalog.Question {
	var out []catalog.Question
	for _, q := range cat.Questions() {
		if !response.IsAnswered(responses[q.ID], q.Type) {
			out = append(out, q)
		}
	}
	return out
}

func percent(part, whole int) int {
	return int(math.Round(100 * float64(part) / float64(whole)))
}
