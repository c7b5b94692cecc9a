// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/response"
)

var alice = Respondent{Name: "Alice", Email: "alice@example.com", Role: "Owner"}

func TestFreezeIsolatesLaterEdits(t *testing.T) {
	cat := catalog.Default()
	responses := response.Map{"vision_sentence": response.Text{Text: "A place"}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("MST", -7*3600))

	p := Freeze(alice, responses, cat, now)
	responses["biz_timeline"] = response.Text{Text: "Q3"}
	delete(responses, "vision_sentence")

	assert.Len(t, p.Responses, 1)
	assert.Contains(t, p.Responses, "vision_sentence")
	assert.Equal(t, time.UTC, p.SubmittedAt.Location())
	assert.True(t, p.SubmittedAt.Equal(now))
	assert.Equal(t, int(100.0/float64(cat.TotalQuestions())+0.5), p.CompletionRate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Payload
		wantErr error
	}{
		{"ok", Payload{Respondent: alice, CompletionRate: 40}, nil},
		{"missing name", Payload{Respondent: Respondent{Email: "a@b.co"}}, ErrMissingRespondent},
		{"blank email", Payload{Respondent: Respondent{Name: "A", Email: "  "}}, ErrMissingRespondent},
		{"rate too high", Payload{Respondent: alice, CompletionRate: 101}, ErrInvalidRate},
		{"rate negative", Payload{Respondent: alice, CompletionRate: -1}, ErrInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.p.Validate(), tt.wantErr)
		})
	}
}

func TestPayloadJSONRoundTrip(t *testing.T) {
	cat := catalog.Default()
	p := Freeze(alice, response.Map{
		"vision_purpose":   response.Single{Selected: "Community fitness hub"},
		"space_allocation": response.Percentage{}.Set("Clinic", 40).Set("Training floor", 60),
	}, cat, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	back, err := DecodePayload(data, cat)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	stored := Stored{Payload: p, ID: "sub_1", StoredAt: p.SubmittedAt.Add(time.Second)}
	data, err = json.Marshal(stored)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "sub_1", flat["id"])
	assert.Contains(t, flat, "respondent")

	gotStored, err := DecodeStored(data, cat)
	require.NoError(t, err)
	assert.Equal(t, stored, gotStored)
}

func TestDecodePayloadInvalid(t *testing.T) {
	_, err := DecodePayload([]byte(`{"respondent": 5}`), catalog.Default())
	assert.Error(t, err)
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b@sub.example.org", true},
		{"alice@example", false},
		{"alice.example.com", false},
		{"@example.com", false},
		{"alice@.com", false},
		{"alice@example.", false},
		{"al ice@example.com", false},
		{"Alice <alice@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}
