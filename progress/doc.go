// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package progress aggregates answers into section and overall progress.
//
// OverallPercent counts complete sections and drives navigation;
// CompletionRate counts answered questions and is stored with a submission.
package progress
