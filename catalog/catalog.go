// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionType selects the answer shape a question collects.
type QuestionType string

const (
	Single     QuestionType = "single"
	Multi      QuestionType = "multi"
	Text       QuestionType = "text"
	Rank       QuestionType = "rank"
	Percentage QuestionType = "percentage"
)

// DefaultFacilityArea is the square footage a 100% allocation represents
// when the catalog does not set one.
const DefaultFacilityArea = 60000

var (
	ErrEmptyCatalog   = errors.New("catalog has no sections")
	ErrDuplicateID    = errors.New("duplicate question id")
	ErrInvalidType    = errors.New("invalid question type")
	ErrMissingOptions = errors.New("question requires options")
)

//go:embed questions.yaml
var defaultYAML []byte

type Question struct {
	ID                     string         `yaml:"id" json:"id"`
	Text                   string         `yaml:"text" json:"text"`
	Type                   QuestionType   `yaml:"type" json:"type"`
	Options                []string       `yaml:"options,omitempty" json:"options,omitempty"`
	HasOther               bool           `yaml:"hasOther,omitempty" json:"hasOther,omitempty"`
	OtherLabel             string         `yaml:"otherLabel,omitempty" json:"otherLabel,omitempty"`
	Placeholder            string         `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	MaxSelections          int            `yaml:"maxSelections,omitempty" json:"maxSelections,omitempty"`
	RankSlots              int            `yaml:"rankSlots,omitempty" json:"rankSlots,omitempty"`
	Zones                  []string       `yaml:"zones,omitempty" json:"zones,omitempty"`
	RecommendedAllocations map[string]int `yaml:"recommendedAllocations,omitempty" json:"recommendedAllocations,omitempty"`
}

// OtherText returns the label shown for the free-text option.
func (q Question) OtherText() string {
	if q.OtherLabel != "" {
		return q.OtherLabel
	}
	return "Other"
}

type Section struct {
	ID          string     `yaml:"id" json:"id"`
	Number      int        `yaml:"number" json:"number"`
	Title       string     `yaml:"title" json:"title"`
	Icon        string     `yaml:"icon" json:"icon"`
	Description string     `yaml:"description" json:"description"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Catalog is the ordered, immutable set of sections a respondent answers.
// Build one with Parse, Load or Default; the zero value is not usable.
type Catalog struct {
	Title        string    `yaml:"title" json:"title"`
	FacilityArea int       `yaml:"facilityArea" json:"facilityArea"`
	Sections     []Section `yaml:"sections" json:"sections"`

	byID  map[string]Question
	total int
}

// Parse decodes and validates a YAML catalog definition.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if c.FacilityArea <= 0 {
		c.FacilityArea = DefaultFacilityArea
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file. An empty path returns the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in Facility Vision questionnaire.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("embedded catalog is invalid: " + err.Error())
	}
	return c
}

func (c *Catalog) index() error {
	if len(c.Sections) == 0 {
		return ErrEmptyCatalog
	}
	c.byID = make(map[string]Question)
	c.total = 0
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			if q.ID == "" {
				return fmt.Errorf("section %q: question without id", s.ID)
			}
			if _, dup := c.byID[q.ID]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateID, q.ID)
			}
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("question %s: %w", q.ID, err)
			}
			c.byID[q.ID] = q
			c.total++
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	switch q.Type {
	case Single, Multi:
		if len(q.Options) == 0 && !q.HasOther {
			return ErrMissingOptions
		}
	case Rank:
		if len(q.Options) == 0 {
			return ErrMissingOptions
		}
		if q.RankSlots <= 0 {
			return errors.New("rank question requires rankSlots > 0")
		}
	case Percentage:
		if len(q.Zones) == 0 {
			return errors.New("percentage question requires zones")
		}
	case Text:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, q.Type)
	}
	return nil
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// TypeOf returns the type of the question with the given id.
func (c *Catalog) TypeOf(id string) (QuestionType, bool) {
	q, ok := c.byID[id]
	return q.Type, ok
}

// TotalQuestions counts every question in the catalog.
func (c *Catalog) TotalQuestions() int {
	return c.total
}

// Questions returns every question flattened in catalog order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, 0, c.total)
	for _, s := range c.Sections {
		out = append(out, s.Questions...)
	}
	return out
}
