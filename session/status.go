// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/progress"
)

// Status is what the progress bar and section navigation show.
type Status struct {
	Section           catalog.Section
	SectionIndex      int
	SectionCount      int
	AnsweredInSection int
	CompletedSections map[int]bool
	OverallPercent    int
	CompletionRate    int
	Unanswered        []catalog.Question
}

// Status summarizes progress for the current state.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	section := m.cat.Sections[m.section]
	return Status{
		Section:           section,
		SectionIndex:      m.section,
		SectionCount:      len(m.cat.Sections),
		AnsweredInSection: progress.AnsweredInSection(section, m.responses),
		CompletedSections: progress.CompletedSections(m.cat, m.responses),
		OverallPercent:    progress.OverallPercent(m.cat, m.responses),
		CompletionRate:    progress.CompletionRate(m.cat, m.responses),
		Unanswered:        progress.Unanswered(m.cat, m.responses),
	}
}
