// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/facility-vision/auth"
	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/cliparse"
	"github.com/danielhkuo/facility-vision/middleware"
	"github.com/danielhkuo/facility-vision/store"
	"github.com/danielhkuo/facility-vision/submission"
)

// MsgInternal is returned when the server itself fails.
const MsgInternal = "Internal server error"

type SubmitHandler struct {
	cat    *catalog.Catalog
	sink   submission.Sink
	store  store.Store
	cfg    cliparse.Config
	ipSalt string
}

// NewSubmitHandler creates the submit endpoint. sink and st should be the
// Unconfigured implementations when email or the archive are not set up.
func NewSubmitHandler(cat *catalog.Catalog, sink submission.Sink, st store.Store, cfg cliparse.Config) *SubmitHandler {
	salt, err := auth.GenerateID(16)
	if err != nil {
		slog.Warn("failed to generate IP hash salt, using admin password", "error", err)
		salt = cfg.AdminPassword
	}
	return &SubmitHandler{cat: cat, sink: sink, store: st, cfg: cfg, ipSalt: salt}
}

func reject(w http.ResponseWriter, status int, msg string) {
	middleware.JSONResponse(w, status, submission.Result{Success: false, Error: msg})
}

// Send handles POST /api/send
func (h *SubmitHandler) Send(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadBody(w, r)
	if err != nil {
		reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload, err := submission.DecodePayload(body, h.cat)
	if err != nil {
		slog.Warn("rejected submission", "error", err)
		reject(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if err := payload.Validate(); err != nil {
		switch {
		case errors.Is(err, submission.ErrMissingRespondent):
			reject(w, http.StatusBadRequest, "Name and email are required")
		case errors.Is(err, submission.ErrInvalidRate):
			reject(w, http.StatusBadRequest, "Completion rate must be between 0 and 100")
		default:
			reject(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	client := auth.HashIP(middleware.GetClientIP(r), h.ipSalt)

	ctx := r.Context()
	if h.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.SendTimeout)
		defer cancel()
	}

	res, err := h.sink.Send(ctx, payload)
	if err != nil {
		slog.Error("submission delivery error", "email", payload.Respondent.Email, "client", client, "error", err)
		reject(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	if !res.Success {
		slog.Error("submission not delivered", "email", payload.Respondent.Email, "client", client, "error", res.Error)
		reject(w, http.StatusInternalServerError, submission.MsgDeliveryFailed)
		return
	}

	// Archiving never changes the outcome for the respondent.
	stored, err := h.store.Put(context.WithoutCancel(r.Context()), payload)
	if err != nil {
		slog.Error("failed to archive submission", "email", payload.Respondent.Email, "error", err)
	} else if stored.ID != "" {
		slog.Info("submission stored", "id", stored.ID, "completion_rate", payload.CompletionRate)
	}

	slog.Info("submission accepted",
		"email", payload.Respondent.Email,
		"client", client,
		"completion_rate", payload.CompletionRate,
		"warning", res.Warning,
	)
	middleware.JSONResponse(w, http.StatusOK, submission.Result{Success: true, Warning: res.Warning})
}
