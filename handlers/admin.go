// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/export"
	"github.com/danielhkuo/facility-vision/middleware"
	"github.com/danielhkuo/facility-vision/models"
	"github.com/danielhkuo/facility-vision/store"
	"github.com/danielhkuo/facility-vision/submission"
)

// Listing page size bounds.
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// AdminHandler serves the admin API. Routes are expected to be wrapped
// with middleware.RequireAdmin.
type AdminHandler struct {
	cat   *catalog.Catalog
	store store.Store
	now   func() time.Time
}

func NewAdminHandler(cat *catalog.Catalog, st store.Store) *AdminHandler {
	return &AdminHandler{cat: cat, store: st, now: time.Now}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// List handles GET /api/admin/submissions
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultPageSize)
	if err != nil || limit < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, MaxPageSize)

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "offset must be zero or more")
		return
	}

	subs, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	total, err := h.store.Count(r.Context())
	if err != nil {
		slog.Error("failed to count submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	if subs == nil {
		subs = []submission.Stored{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubmissionsResponse{
		Submissions: subs,
		Total:       total,
	})
}

// Get handles GET /api/admin/submissions/{id}
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sub, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		slog.Error("failed to get submission", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submission")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sub)
}

// Delete handles DELETE /api/admin/submissions?id=
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing submission ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete submission", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete submission")
		return
	}

	slog.Info("submission deleted", "id", id)
	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponse{Success: true})
}

// Export handles GET /api/admin/submissions/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	subs, err := export.All(r.Context(), h.store)
	if err != nil {
		slog.Error("failed to load submissions for export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export submissions")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.cat, subs); err != nil {
		slog.Error("failed to render export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export submissions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	subs, err := export.All(r.Context(), h.store)
	if err != nil {
		slog.Error("failed to load submissions for stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	st := export.Summarize(subs)
	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		Total:             st.Total,
		AverageCompletion: st.AverageCompletion,
		FullCompletions:   st.FullCompletions,
	})
}
