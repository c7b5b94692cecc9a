// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/facility-vision/submission"
)

// MsgNotConfigured is the warning returned when no mail provider is set up.
const MsgNotConfigured = "Email service not configured. Responses captured."

// Unconfigured accepts submissions without sending anything.
type Unconfigured struct{}

func (Unconfigured) Send(_ context.Context, p submission.Payload) (submission.Result, error) {
	slog.Warn("email service not configured, submission not sent", "email", p.Respondent.Email)
	return submission.Result{Success: true, Warning: MsgNotConfigured}, nil
}

// HTTP posts payloads to a server's submit endpoint.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP creates a sink for the server at baseURL. A nil client uses
// http.DefaultClient.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{endpoint: strings.TrimRight(baseURL, "/") + "/api/send", client: client}
}

// Send returns an error only when the server could not be reached or
// answered with something other than a result.
func (h *HTTP) Send(ctx context.Context, p submission.Payload) (submission.Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return submission.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	var res submission.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return submission.Result{}, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 && res.Success {
		res.Success = false
	}
	if !res.Success && res.Error == "" {
		res.Error = http.StatusText(resp.StatusCode)
	}
	return res, nil
}
