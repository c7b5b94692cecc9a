// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session drives one respondent through the questionnaire.

# Screens

	welcome ──Begin/Resume──▶ questions ──Next (last section)──▶ review ──Submit──▶ confirmation
	                             ▲  │ Next/Prev/GoTo                │
	                             └──┴──────────── Edit/Back ────────┘

StartOver returns to welcome from anywhere and discards the session.

# Autosave

Every edit and navigation on the questions and review screens schedules a
debounced save through autosave.Saver. A successful Submit or StartOver
clears the saved copy.

# Submitting

Submit freezes the answers into a submission.Payload and runs it through
the pipeline. Only one submission runs at a time. With unanswered
questions Submit returns ErrIncomplete until called with
confirmIncomplete set; incomplete submissions are accepted.
*/
package session
