// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export flattens archived submissions for the admin view.

WriteCSV writes one row per submission with the respondent columns
followed by one column per catalog question, in catalog order. Every
cell is wrapped in double quotes with embedded quotes doubled, and
answers use the compact one-line format. Summarize computes the
dashboard totals.
*/
package export
