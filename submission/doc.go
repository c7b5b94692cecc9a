// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submission freezes a finished questionnaire and hands it to a
notification sink.

# Payload

Freeze snapshots the respondent and responses and computes the completion
rate (answered questions / catalog questions, rounded):

	payload := submission.Freeze(respondent, responses, cat, time.Now())

Stored adds the id and timestamp assigned by a submission store.

# Pipeline

Pipeline.Submit calls the Sink once and allows a single submission at a
time. A Sink reports success when at least one delivery landed; a failed
call (transport error, timeout) is treated like a total delivery failure.
*/
package submission
