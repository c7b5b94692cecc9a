// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/cliparse"
	"github.com/danielhkuo/facility-vision/handlers"
	"github.com/danielhkuo/facility-vision/middleware"
	"github.com/danielhkuo/facility-vision/store"
	"github.com/danielhkuo/facility-vision/submission"
)

func NewRouter(cfg cliparse.Config, cat *catalog.Catalog, sink submission.Sink, st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	submitHandler := handlers.NewSubmitHandler(cat, sink, st, cfg)
	adminHandler := handlers.NewAdminHandler(cat, st)
	catalogHandler := handlers.NewCatalogHandler(cat)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminPassword, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Respondent operations (public)
	mux.HandleFunc("GET /api/catalog", middleware.WithLogging(catalogHandler.Get))
	mux.HandleFunc("POST /api/send", middleware.WithLogging(submitHandler.Send))

	// Admin operations (bearer token)
	mux.HandleFunc("GET /api/admin/submissions", admin(adminHandler.List))
	mux.HandleFunc("DELETE /api/admin/submissions", admin(adminHandler.Delete))
	mux.HandleFunc("GET /api/admin/submissions/export", admin(adminHandler.Export))
	mux.HandleFunc("GET /api/admin/submissions/{id}", admin(adminHandler.Get))
	mux.HandleFunc("GET /api/admin/stats", admin(adminHandler.Stats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("facility-vision API v1"))
	})

	return mux
}
