// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
)

// TimeLayout formats the Submitted At column.
const TimeLayout = "2006-01-02 15:04:05 MST"

// BatchSize is how many submissions All reads per page.
const BatchSize = 500

var fixedHeader = []string{"Name", "Email", "Role", "Completion", "Submitted At"}

// Header returns the CSV header for a catalog.
func Header(cat *catalog.Catalog) []string {
	out := append([]string{}, fixedHeader...)
	for _, q := range cat.Questions() {
		out = append(out, q.Text)
	}
	return out
}

// Row flattens one submission in Header order.
func Row(cat *catalog.Catalog, s submission.Stored) []string {
	f := response.Formatter{Style: response.Compact, Area: cat.FacilityArea}
	row := []string{
		s.Respondent.Name,
		s.Respondent.Email,
		s.Respondent.Role,
		strconv.Itoa(s.CompletionRate) + "%",
		s.SubmittedAt.UTC().Format(TimeLayout),
	}
	for _, q := range cat.Questions() {
		row = append(row, f.Format(s.Responses[q.ID], q.Type))
	}
	return row
}

// WriteCSV writes the header and one row per submission. Rows are
// separated by a single newline.
func WriteCSV(w io.Writer, cat *catalog.Catalog, subs []submission.Stored) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, Header(cat))
	for _, s := range subs {
		bw.WriteByte('\n')
		writeLine(bw, Row(cat, s))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(Quote(c))
	}
}

// Quote wraps a cell in double quotes, doubling any inside it.
func Quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Filename is the suggested download name for an export made at t.
func Filename(t time.Time) string {
	return "facility-vision-submissions-" + t.UTC().Format("2006-01-02") + ".csv"
}

// Stats are the dashboard totals.
type Stats struct {
	Total             int `json:"total"`
	AverageCompletion int `json:"averageCompletion"`
	FullCompletions   int `json:"fullCompletions"`
}

// Summarize computes totals over subs. The average is rounded to the
// nearest whole percent and is 0 for no submissions.
func Summarize(subs []submission.Stored) Stats {
	st := Stats{Total: len(subs)}
	if len(subs) == 0 {
		return st
	}
	sum := 0
	for _, s := range subs {
		sum += s.CompletionRate
		if s.CompletionRate == 100 {
			st.FullCompletions++
		}
	}
	st.AverageCompletion = int(math.Round(float64(sum) / float64(len(subs))))
	return st
}

// Lister pages through archived submissions.
type Lister interface {
	List(ctx context.Context, limit, offset int) ([]submission.Stored, error)
}

// All reads every submission, newest first.
func All(ctx context.Context, l Lister) ([]submission.Stored, error) {
	var out []submission.Stored
	for offset := 0; ; offset += BatchSize {
		page, err := l.List(ctx, BatchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return out, nil
		}
		out = append(out, page...)
	}
}
