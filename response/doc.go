// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package response models answers to catalog questions.

# Answer Shapes

Response is a closed set of variants, one per question type:

	single      Single{Selected, Other}
	multi       Multi{Selected, Other}
	text        Text{Text}
	rank        Rank{Ranked}
	percentage  Percentage{Allocations}

OtherSentinel inside Selected means the respondent picked the free-text
option; its text lives in Other.

# Editing

Every mutator returns a new value and leaves the receiver untouched:

	r = r.Toggle("Cold plunge", q.MaxSelections)
	p = p.Adjust("Clinic", response.Step)
	p = p.SetInput("Gym", "60")

Percentage values are clamped to [0,100] and a zone that reaches 0 is
removed. Totals above 100 are allowed; callers show AllocationStatus.

# Rendering

Format renders answers for review, admin export and email. Unanswered
questions render as NotAnswered.
*/
package response
