// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrInFlight is returned when a submission is attempted while another is
// still running.
var ErrInFlight = errors.New("a submission is already in progress")

// Messages shown to the respondent. Each offers a next action.
const (
	MsgDeliveryFailed = "We couldn't send your responses. Please try again, or copy your responses and email them to us."
	MsgNetworkFailed  = "Network error. Please try again or copy your responses."
)

// Result reports the outcome of a delivery attempt. Success with a Warning
// means a partial delivery.
type Result struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Sink delivers a finished submission. An error means the call itself
// failed (transport, timeout) rather than a delivery outcome.
type Sink interface {
	Send(ctx context.Context, p Payload) (Result, error)
}

// Pipeline hands frozen payloads to a Sink, allowing one submission at a
// time.
type Pipeline struct {
	sink     Sink
	timeout  time.Duration
	inFlight atomic.Bool
}

// NewPipeline creates a pipeline. A zero timeout means no deadline beyond
// the caller's context.
func NewPipeline(sink Sink, timeout time.Duration) *Pipeline {
	return &Pipeline{sink: sink, timeout: timeout}
}

// InFlight reports whether a submission is running.
func (p *Pipeline) InFlight() bool {
	return p.inFlight.Load()
}

// Submit sends the payload. Transport failures and timeouts come back as an
// unsuccessful Result; the only error is ErrInFlight.
func (p *Pipeline) Submit(ctx context.Context, payload Payload) (Result, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer p.inFlight.Store(false)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res, err := p.sink.Send(ctx, payload)
	if err != nil {
		slog.Error("submission transport failed", "email", payload.Respondent.Email, "error", err)
		return Result{Success: false, Error: MsgNetworkFailed}, nil
	}
	if !res.Success {
		slog.Error("submission delivery failed", "email", payload.Respondent.Email, "error", res.Error)
		return Result{Success: false, Error: MsgDeliveryFailed}, nil
	}
	if res.Warning != "" {
		slog.Warn("submission partially delivered", "email", payload.Respondent.Email, "warning", res.Warning)
	}
	return res, nil
}
