// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/submission"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	ownerTmpl = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/owner.html"))
	copyTmpl  = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/copy.html"))
)

type item struct {
	Question string
	Answer   string
	Answered bool
}

type sectionView struct {
	Number int
	Icon   string
	Title  string
	Items  []item
}

type emailView struct {
	Title            string
	Heading          string
	Respondent       submission.Respondent
	Rate             int
	Submitted        string
	ShowRateInHeader bool
	Year             int
	Sections         []sectionView
}

func newView(cat *catalog.Catalog, p submission.Payload, heading string) emailView {
	f := response.Formatter{Style: response.Detailed, Area: cat.FacilityArea}
	sections := make([]sectionView, 0, len(cat.Sections))
	for _, s := range cat.Sections {
		sv := sectionView{Number: s.Number, Icon: s.Icon, Title: s.Title}
		for _, q := range s.Questions {
			r := p.Responses[q.ID]
			sv.Items = append(sv.Items, item{
				Question: q.Text,
				Answer:   f.Format(r, q.Type),
				Answered: response.IsAnswered(r, q.Type),
			})
		}
		sections = append(sections, sv)
	}

	title := cat.Title
	if title == "" {
		title = "Facility Vision Questionnaire"
	}
	return emailView{
		Title:      title,
		Heading:    heading,
		Respondent: p.Respondent,
		Rate:       p.CompletionRate,
		Submitted:  p.SubmittedAt.Format("Jan 2, 2006 3:04 PM MST"),
		Year:       p.SubmittedAt.Year(),
		Sections:   sections,
	}
}

func renderOwner(cat *catalog.Catalog, p submission.Payload) (string, error) {
	return execute(ownerTmpl, newView(cat, p, "Facility Vision Response"))
}

func renderCopy(cat *catalog.Catalog, p submission.Payload) (string, error) {
	v := newView(cat, p, "Your Facility Vision Responses")
	v.ShowRateInHeader = true
	return execute(copyTmpl, v)
}

func execute(t *template.Template, v emailView) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
