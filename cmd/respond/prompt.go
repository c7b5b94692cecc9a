// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/session"
)

// ExportFile is written to the export directory when the respondent asks
// for a copy of their answers.
const ExportFile = "facility-vision-responses.json"

// errQuit ends the prompt loop. Progress stays saved.
var errQuit = errors.New("quit")

type ui struct {
	m         *session.Machine
	cat       *catalog.Catalog
	in        *bufio.Scanner
	out       io.Writer
	exportDir string
}

func newUI(m *session.Machine, cat *catalog.Catalog, in *bufio.Scanner, out io.Writer) *ui {
	return &ui{m: m, cat: cat, in: in, out: out, exportDir: "."}
}

// run shows screens until the respondent submits or quits. Mistakes are
// printed and the current screen is shown again.
func (u *ui) run(ctx context.Context) error {
	for {
		var err error
		switch u.m.Screen() {
		case session.Welcome:
			err = u.welcome()
		case session.Questions:
			err = u.questions()
		case session.Review:
			err = u.review(ctx)
		case session.Confirmation:
			u.confirmation()
			return nil
		}
		if errors.Is(err, errQuit) {
			fmt.Fprintln(u.out, "Your progress is saved. Run respond again to continue.")
			return nil
		}
		if err != nil {
			fmt.Fprintf(u.out, "! %v\n", err)
		}
	}
}

// ask prints prompt and reads one trimmed line. End of input quits.
func (u *ui) ask(prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			slog.Error("reading input", "error", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(u.in.Text()), nil
}

func (u *ui) confirm(prompt string, def bool) (bool, error) {
	a, err := u.ask(prompt)
	if err != nil {
		return false, err
	}
	if a == "" {
		return def, nil
	}
	return strings.HasPrefix(strings.ToLower(a), "y"), nil
}

func (u *ui) welcome() error {
	if r, ok := u.m.Resumable(); ok {
		fmt.Fprintf(u.out, "Welcome back, %s.\n", r.Name)
		yes, err := u.confirm("Resume where you left off? [Y/n] ", true)
		if err != nil {
			return err
		}
		if yes {
			return u.m.Resume()
		}
		u.m.StartOver()
	}

	fmt.Fprintf(u.out, "\n%s\n%d sections, %d questions. Your answers are saved as you go.\n\n",
		u.cat.Title, len(u.cat.Sections), u.cat.TotalQuestions())
	name, err := u.ask("Name: ")
	if err != nil {
		return err
	}
	email, err := u.ask("Email: ")
	if err != nil {
		return err
	}
	role, err := u.ask("Role / Title: ")
	if err != nil {
		return err
	}

	err = u.m.Begin(name, email, role)
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
			fmt.Fprintf(u.out, "! %s: %s\n", field, verr.Fields[field])
		}
		return nil
	}
	return err
}

func (u *ui) questions() error {
	st := u.m.Status()
	fmt.Fprintf(u.out, "\n[%d%%] Section %d of %d: %s (%d/%d answered)\n",
		st.OverallPercent, st.SectionIndex+1, st.SectionCount, st.Section.Title,
		st.AnsweredInSection, len(st.Section.Questions))
	if st.Section.Description != "" {
		fmt.Fprintln(u.out, st.Section.Description)
	}
	for i, q := range st.Section.Questions {
		fmt.Fprintf(u.out, "%2d. %s\n    %s\n", i+1, q.Text, u.show(q))
	}

	cmd, err := u.ask("Question number to answer, n next, p previous, g N go to section, q quit: ")
	if err != nil {
		return err
	}
	switch {
	case cmd == "n":
		return u.m.Next()
	case cmd == "p":
		return u.m.Prev()
	case cmd == "q":
		return errQuit
	case strings.HasPrefix(cmd, "g "):
		n, err := strconv.Atoi(strings.TrimSpace(cmd[2:]))
		if err != nil {
			return fmt.Errorf("not a section number: %q", cmd[2:])
		}
		return u.m.GoTo(n - 1)
	}

	n, err := strconv.Atoi(cmd)
	if err != nil || n < 1 || n > len(st.Section.Questions) {
		return fmt.Errorf("unknown command %q", cmd)
	}
	return u.answer(st.Section.Questions[n-1])
}

// show renders the stored answer on one line for the question list.
func (u *ui) show(q catalog.Question) string {
	f := response.Formatter{Style: response.Compact, Area: u.cat.FacilityArea}
	return f.Format(u.m.Response(q.ID), q.Type)
}

func (u *ui) answer(q catalog.Question) error {
	fmt.Fprintf(u.out, "\n%s\n", q.Text)
	switch q.Type {
	case catalog.Single:
		return u.answerSingle(q)
	case catalog.Multi:
		return u.answerMulti(q)
	case catalog.Text:
		return u.answerText(q)
	case catalog.Rank:
		return u.answerRank(q)
	case catalog.Percentage:
		return u.answerPercentage(q)
	}
	return fmt.Errorf("unsupported question type %q", q.Type)
}

// choices lists a question's options numbered from 1, with Other last.
func (u *ui) choices(q catalog.Question, marked func(option string) string) []string {
	options := slices.Clone(q.Options)
	if q.HasOther {
		options = append(options, response.OtherSentinel)
	}
	for i, opt := range options {
		label := opt
		if opt == response.OtherSentinel {
			label = q.OtherText()
		}
		fmt.Fprintf(u.out, " %s %2d) %s\n", marked(opt), i+1, label)
	}
	return options
}

func pick(options []string, field string) (string, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 1 || n > len(options) {
		return "", fmt.Errorf("no choice %q", field)
	}
	return options[n-1], nil
}

func mark(on bool) string {
	if on {
		return "*"
	}
	return " "
}

func (u *ui) answerSingle(q catalog.Question) error {
	cur, _ := u.m.Response(q.ID).(response.Single)
	options := u.choices(q, func(opt string) string { return mark(cur.Selected == opt) })

	a, err := u.ask("Choice (Enter keeps, 0 clears): ")
	if err != nil || a == "" {
		return err
	}
	if a == "0" {
		return u.m.SetResponse(q.ID, nil)
	}
	opt, err := pick(options, a)
	if err != nil {
		return err
	}
	if opt != response.OtherSentinel {
		return u.m.Update(q.ID, func(r response.Response) response.Response {
			return r.(response.Single).Select(opt)
		})
	}

	text, err := u.ask(fmt.Sprintf("%s [%s]: ", q.OtherText(), cur.Other))
	if err != nil {
		return err
	}
	return u.m.Update(q.ID, func(r response.Response) response.Response {
		if text == "" {
			return r.(response.Single).SelectOther()
		}
		return r.(response.Single).SetOther(text)
	})
}

func (u *ui) answerMulti(q catalog.Question) error {
	for {
		cur, _ := u.m.Response(q.ID).(response.Multi)
		options := u.choices(q, func(opt string) string { return mark(cur.Contains(opt)) })
		if q.MaxSelections > 0 {
			fmt.Fprintf(u.out, "Pick up to %d.\n", q.MaxSelections)
		}

		a, err := u.ask("Toggle choices (e.g. 1 3), Enter when done: ")
		if err != nil || a == "" {
			return err
		}
		for _, field := range strings.Fields(a) {
			opt, err := pick(options, field)
			if err != nil {
				return err
			}
			if err := u.toggleMulti(q, opt); err != nil {
				return err
			}
		}
	}
}

func (u *ui) toggleMulti(q catalog.Question, opt string) error {
	err := u.m.Update(q.ID, func(r response.Response) response.Response {
		return r.(response.Multi).Toggle(opt, q.MaxSelections)
	})
	if err != nil || opt != response.OtherSentinel {
		return err
	}

	cur, _ := u.m.Response(q.ID).(response.Multi)
	if !cur.IsOther() {
		return nil
	}
	text, err := u.ask(fmt.Sprintf("%s [%s]: ", q.OtherText(), cur.Other))
	if err != nil || text == "" {
		return err
	}
	return u.m.Update(q.ID, func(r response.Response) response.Response {
		return r.(response.Multi).SetOther(text)
	})
}

func (u *ui) answerText(q catalog.Question) error {
	if q.Placeholder != "" {
		fmt.Fprintf(u.out, "(%s)\n", q.Placeholder)
	}
	a, err := u.ask("Answer (Enter keeps, - clears): ")
	if err != nil || a == "" {
		return err
	}
	if a == "-" {
		return u.m.SetResponse(q.ID, nil)
	}
	return u.m.SetResponse(q.ID, response.Text{Text: a})
}

func (u *ui) answerRank(q catalog.Question) error {
	cur, _ := u.m.Response(q.ID).(response.Rank)
	options := u.choices(q, func(opt string) string {
		if p := cur.Position(opt); p > 0 {
			return strconv.Itoa(p)
		}
		return " "
	})

	a, err := u.ask(fmt.Sprintf("Your top %d in order (e.g. 3 1 2), Enter keeps, 0 clears: ", q.RankSlots))
	if err != nil || a == "" {
		return err
	}
	if a == "0" {
		return u.m.SetResponse(q.ID, nil)
	}
	var ranked response.Rank
	for _, field := range strings.Fields(a) {
		opt, err := pick(options, field)
		if err != nil {
			return err
		}
		if ranked.Position(opt) == 0 {
			ranked = ranked.Toggle(opt, q.RankSlots)
		}
	}
	return u.m.SetResponse(q.ID, ranked)
}

func (u *ui) answerPercentage(q catalog.Question) error {
	fmt.Fprintf(u.out, "Allocate percentages of %d SF. Enter keeps a value.\n", u.cat.FacilityArea)
	for _, zone := range q.Zones {
		cur, _ := u.m.Response(q.ID).(response.Percentage)
		hint := ""
		if rec, ok := q.RecommendedAllocations[zone]; ok {
			hint = fmt.Sprintf(", suggested %d%%", rec)
		}
		a, err := u.ask(fmt.Sprintf("  %s [%d%%%s]: ", zone, cur.Allocations.Get(zone), hint))
		if err != nil {
			return err
		}
		if a == "" {
			continue
		}
		err = u.m.Update(q.ID, func(r response.Response) response.Response {
			return r.(response.Percentage).SetInput(zone, a)
		})
		if err != nil {
			return err
		}
	}
	cur, _ := u.m.Response(q.ID).(response.Percentage)
	fmt.Fprintln(u.out, response.AllocationStatus(cur))
	return nil
}

func (u *ui) review(ctx context.Context) error {
	st := u.m.Status()
	f := response.Formatter{Style: response.List, Area: u.cat.FacilityArea}
	responses := u.m.Responses()

	fmt.Fprintf(u.out, "\nReview your responses (%d%% complete)\n", st.CompletionRate)
	for i, s := range u.cat.Sections {
		fmt.Fprintf(u.out, "%d. %s %s\n", i+1, s.Title, mark(st.CompletedSections[i]))
		for _, q := range s.Questions {
			answer := strings.ReplaceAll(f.Format(responses[q.ID], q.Type), "\n", "\n     ")
			fmt.Fprintf(u.out, "   %s\n     %s\n", q.Text, answer)
		}
	}
	if n := len(st.Unanswered); n > 0 {
		fmt.Fprintf(u.out, "%d question(s) unanswered.\n", n)
	}
	if msg := u.m.LastError(); msg != "" {
		fmt.Fprintf(u.out, "! %s\n", msg)
	}

	cmd, err := u.ask("s submit, e N edit section, b back, x export a copy, q quit: ")
	if err != nil {
		return err
	}
	switch {
	case cmd == "s":
		return u.submit(ctx)
	case cmd == "b":
		return u.m.Back()
	case cmd == "x":
		return u.export()
	case cmd == "q":
		return errQuit
	case strings.HasPrefix(cmd, "e "):
		n, err := strconv.Atoi(strings.TrimSpace(cmd[2:]))
		if err != nil {
			return fmt.Errorf("not a section number: %q", cmd[2:])
		}
		return u.m.Edit(n - 1)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (u *ui) submit(ctx context.Context) error {
	confirmed := false
	if n := len(u.m.Status().Unanswered); n > 0 {
		yes, err := u.confirm(fmt.Sprintf("%d question(s) are unanswered. Submit anyway? [y/N] ", n), false)
		if err != nil || !yes {
			return err
		}
		confirmed = true
	}

	fmt.Fprintln(u.out, "Sending...")
	res, err := u.m.Submit(ctx, confirmed)
	if err != nil {
		return err
	}
	if !res.Success {
		// review shows LastError; point at the way out
		fmt.Fprintln(u.out, "Type x to save a copy you can email to us.")
	}
	return nil
}

func (u *ui) export() error {
	data, err := u.m.Export()
	if err != nil {
		return err
	}
	path := filepath.Join(u.exportDir, ExportFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(u.out, "Saved a copy to %s\n", path)
	return nil
}

func (u *ui) confirmation() {
	r := u.m.Respondent()
	fmt.Fprintf(u.out, "\nThank you, %s! Your responses were sent.\n", r.Name)
	if w := u.m.Warning(); w != "" {
		fmt.Fprintf(u.out, "Note: %s\n", w)
	}
}
