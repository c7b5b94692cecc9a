// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/submission"
)

// Partial-delivery warnings shown to the respondent. Provider errors stay
// in the log.
const (
	MsgOwnerFailed = "Your responses were received, but the team notification could not be sent. Keep your copy in case we need it."
	MsgCopyFailed  = "Your responses were received, but we couldn't email you a copy."
)

// Email notifies the operator and sends the respondent a copy of their
// answers.
type Email struct {
	mailer    Mailer
	cat       *catalog.Catalog
	from      string
	recipient string
}

// NewEmail creates an email sink. recipient receives the operator
// notification; from is the sender of both messages.
func NewEmail(mailer Mailer, cat *catalog.Catalog, from, recipient string) *Email {
	return &Email{mailer: mailer, cat: cat, from: from, recipient: recipient}
}

// Send delivers both emails concurrently. It only returns an error when
// rendering fails; delivery problems are reported in the Result.
func (e *Email) Send(ctx context.Context, p submission.Payload) (submission.Result, error) {
	owner, err := renderOwner(e.cat, p)
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to render notification: %w", err)
	}
	copyHTML, err := renderCopy(e.cat, p)
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to render respondent copy: %w", err)
	}

	msgs := []Message{
		{
			From:    e.from,
			To:      e.recipient,
			Subject: fmt.Sprintf("Facility Vision Response — %s (%d%%)", p.Respondent.Name, p.CompletionRate),
			HTML:    owner,
		},
		{
			From:    e.from,
			To:      p.Respondent.Email,
			Subject: "Your Facility Vision Responses — Copy",
			HTML:    copyHTML,
		},
	}
	labels := []string{"Owner email failed", "Confirmation email failed"}
	warnings := []string{MsgOwnerFailed, MsgCopyFailed}

	errs := make([]error, len(msgs))
	var wg sync.WaitGroup
	for i, msg := range msgs {
		wg.Add(1)
		go func(i int, msg Message) {
			defer wg.Done()
			errs[i] = e.mailer.Send(ctx, msg)
		}(i, msg)
	}
	wg.Wait()

	var failures, warned []string
	for i, err := range errs {
		if err != nil {
			failures = append(failures, labels[i]+": "+err.Error())
			warned = append(warned, warnings[i])
		}
	}
	if len(failures) == 0 {
		slog.Info("submission emailed", "email", p.Respondent.Email)
		return submission.Result{Success: true}, nil
	}

	slog.Error("email delivery errors", "email", p.Respondent.Email, "errors", strings.Join(failures, "; "))
	if len(failures) < len(msgs) {
		return submission.Result{Success: true, Warning: strings.Join(warned, " ")}, nil
	}
	return submission.Result{Success: false, Error: submission.MsgDeliveryFailed}, nil
}
