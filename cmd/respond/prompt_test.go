// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/facility-vision/autosave"
	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/notify"
	"github.com/danielhkuo/facility-vision/response"
	"github.com/danielhkuo/facility-vision/session"
	"github.com/danielhkuo/facility-vision/submission"
)

const testCatalog = `
title: Test Vision
facilityArea: 1000
sections:
  - id: basics
    number: 1
    title: Basics
    questions:
      - {id: q1, text: Pick one, type: single, options: [A, B], hasOther: true}
      - {id: q2, text: Pick two, type: multi, options: [X, Y, Z], maxSelections: 2}
  - id: detail
    number: 2
    title: Detail
    questions:
      - {id: q3, text: Describe, type: text}
      - {id: q4, text: Rank them, type: rank, options: [P, Q, R], rankSlots: 2}
      - {id: q5, text: Split space, type: percentage, zones: [Clinic, Office]}
`

type client struct {
	ui    *ui
	m     *session.Machine
	kv    *autosave.MemoryStore
	out   *bytes.Buffer
	calls *atomic.Int32
}

// newClient scripts a terminal session against a server answering with
// status and body.
func newClient(t *testing.T, kv *autosave.MemoryStore, status int, body string, input ...string) *client {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	saver := autosave.NewSaver(autosave.NewProgress(kv, cat), time.Hour)
	pipeline := submission.NewPipeline(notify.NewHTTP(srv.URL, srv.Client()), 5*time.Second)
	m := session.New(cat, pipeline, saver)
	t.Cleanup(m.Close)

	out := &bytes.Buffer{}
	in := bufio.NewScanner(strings.NewReader(strings.Join(input, "\n") + "\n"))
	u := newUI(m, cat, in, out)
	u.exportDir = t.TempDir()
	return &client{ui: u, m: m, kv: kv, out: out, calls: calls}
}

func TestRunAnswersEveryTypeAndSubmits(t *testing.T) {
	c := newClient(t, autosave.NewMemoryStore(), http.StatusOK, `{"success":true}`,
		"Ada", "ada@example.com", "Director",
		"1", "3", "Pharmacy", // single: Other with text
		"2", "1 2 3", "", // multi: Z is past the limit
		"n",
		"1", "Hello",
		"2", "3 1",
		"3", "60", "40",
		"n",
		"s",
	)

	require.NoError(t, c.ui.run(context.Background()))

	assert.Equal(t, session.Confirmation, c.m.Screen())
	assert.EqualValues(t, 1, c.calls.Load())
	assert.Contains(t, c.out.String(), "Thank you, Ada!")
	assert.Contains(t, c.out.String(), "100% allocated")
	assert.Contains(t, c.out.String(), "     • X\n     • Y\n", "review lists multi answers one per line")
	assert.Contains(t, c.out.String(), "     1. R\n     2. P\n", "review lists ranks in order")

	got := c.m.Responses()
	assert.Equal(t, response.Single{Selected: response.OtherSentinel, Other: "Pharmacy"}, got["q1"])
	assert.Equal(t, response.Multi{Selected: []string{"X", "Y"}}, got["q2"])
	assert.Equal(t, response.Text{Text: "Hello"}, got["q3"])
	assert.Equal(t, response.Rank{Ranked: []string{"R", "P"}}, got["q4"])
	pct := got["q5"].(response.Percentage)
	assert.Equal(t, 60, pct.Allocations.Get("Clinic"))
	assert.Equal(t, 40, pct.Allocations.Get("Office"))

	_, err := c.kv.Get(autosave.Key)
	assert.ErrorIs(t, err, autosave.ErrNotFound, "saved progress is cleared after submitting")
}

func TestRunFailedSubmitOffersExport(t *testing.T) {
	c := newClient(t, autosave.NewMemoryStore(), http.StatusInternalServerError, `{"success":false,"error":"boom"}`,
		"Ada", "ada@example.com", "Director",
		"n", "n",
		"s", "y",
		"x",
		"q",
	)

	require.NoError(t, c.ui.run(context.Background()))

	assert.Equal(t, session.Review, c.m.Screen())
	assert.Contains(t, c.out.String(), "5 question(s) are unanswered")
	assert.Contains(t, c.out.String(), submission.MsgDeliveryFailed)
	assert.Contains(t, c.out.String(), "Your progress is saved")

	data, err := os.ReadFile(filepath.Join(c.ui.exportDir, ExportFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ada@example.com")
}

func TestRunDeclinedConfirmationStaysOnReview(t *testing.T) {
	c := newClient(t, autosave.NewMemoryStore(), http.StatusOK, `{"success":true}`,
		"Ada", "ada@example.com", "Director",
		"n", "n",
		"s", "", // default is no
		"q",
	)

	require.NoError(t, c.ui.run(context.Background()))

	assert.Equal(t, session.Review, c.m.Screen())
	assert.Zero(t, c.calls.Load())
}

func TestRunValidatesThenResumes(t *testing.T) {
	kv := autosave.NewMemoryStore()
	first := newClient(t, kv, http.StatusOK, `{"success":true}`,
		"", "bad", "",
		"Ada", "ada@example.com", "Director",
		"n",
		"1", "Hello",
		"q",
	)
	require.NoError(t, first.ui.run(context.Background()))
	first.m.Close()

	out := first.out.String()
	assert.Contains(t, out, "! email: Enter a valid email")
	assert.Contains(t, out, "! name: Name is required")
	assert.Contains(t, out, "! role: Role / Title is required")

	second := newClient(t, kv, http.StatusOK, `{"success":true}`, "", "q")
	require.NoError(t, second.ui.run(context.Background()))

	assert.Contains(t, second.out.String(), "Welcome back, Ada.")
	assert.Equal(t, session.Questions, second.m.Screen())
	assert.Equal(t, 1, second.m.CurrentSection())
	assert.Equal(t, response.Text{Text: "Hello"}, second.m.Response("q3"))
}

func TestRunUnknownCommandRepeatsScreen(t *testing.T) {
	c := newClient(t, autosave.NewMemoryStore(), http.StatusOK, `{"success":true}`,
		"Ada", "ada@example.com", "Director",
		"zz", "g 9", "q",
	)

	require.NoError(t, c.ui.run(context.Background()))

	assert.Contains(t, c.out.String(), `! unknown command "zz"`)
	assert.Contains(t, c.out.String(), "section out of range")
	assert.Equal(t, 2, strings.Count(c.out.String(), "! "))
}
