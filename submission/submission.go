// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/progress"
	"github.com/danielhkuo/facility-vision/response"
)

var (
	ErrMissingRespondent = errors.New("name and email are required")
	ErrInvalidRate       = errors.New("completion rate must be between 0 and 100")
)

type Respondent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Payload is the frozen snapshot sent for delivery and archiving. Build it
// with Freeze; it is never modified afterwards.
type Payload struct {
	Respondent     Respondent   `json:"respondent"`
	Responses      response.Map `json:"responses"`
	CompletionRate int          `json:"completionRate"`
	SubmittedAt    time.Time    `json:"submittedAt"`
}

// Stored is a payload as kept by a submission store.
type Stored struct {
	Payload
	ID       string    `json:"id"`
	StoredAt time.Time `json:"storedAt"`
}

// Freeze copies the respondent and responses and computes the completion
// rate against the catalog. Later edits to the inputs do not reach the
// payload.
func Freeze(r Respondent, responses response.Map, cat *catalog.Catalog, now time.Time) Payload {
	frozen := responses.Clone()
	return Payload{
		Respondent:     r,
		Responses:      frozen,
		CompletionRate: progress.CompletionRate(cat, frozen),
		SubmittedAt:    now.UTC(),
	}
}

// Validate checks what the submit endpoint requires of a payload.
func (p Payload) Validate() error {
	if strings.TrimSpace(p.Respondent.Name) == "" || strings.TrimSpace(p.Respondent.Email) == "" {
		return ErrMissingRespondent
	}
	if p.CompletionRate < 0 || p.CompletionRate > 100 {
		return ErrInvalidRate
	}
	return nil
}

type payloadJSON struct {
	Respondent     Respondent                 `json:"respondent"`
	Responses      map[string]json.RawMessage `json:"responses"`
	CompletionRate int                        `json:"completionRate"`
	SubmittedAt    time.Time                  `json:"submittedAt"`
}

type storedJSON struct {
	payloadJSON
	ID       string    `json:"id"`
	StoredAt time.Time `json:"storedAt"`
}

// DecodePayload parses a payload, decoding each response against its
// question's type.
func DecodePayload(data []byte, cat *catalog.Catalog) (Payload, error) {
	var w payloadJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return Payload{}, fmt.Errorf("invalid payload: %w", err)
	}
	return w.payload(cat)
}

// DecodeStored parses a stored submission record.
func DecodeStored(data []byte, cat *catalog.Catalog) (Stored, error) {
	var w storedJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return Stored{}, fmt.Errorf("invalid stored submission: %w", err)
	}
	p, err := w.payload(cat)
	if err != nil {
		return Stored{}, err
	}
	return Stored{Payload: p, ID: w.ID, StoredAt: w.StoredAt}, nil
}

func (w payloadJSON) payload(cat *catalog.Catalog) (Payload, error) {
	responses, _, err := response.DecodeMap(w.Responses, cat)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Respondent:     w.Respondent,
		Responses:      responses,
		CompletionRate: w.CompletionRate,
		SubmittedAt:    w.SubmittedAt,
	}, nil
}

// ValidEmail accepts addresses with an @ and a dotted domain.
func ValidEmail(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return at > 0 && dot > 0 && dot < len(domain)-1
}
