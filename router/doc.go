// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Facility Vision API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(cfg, cat, sink, st)

# Endpoints

Health:

	GET /health

Respondent (public):

	GET  /api/catalog - Question catalog
	POST /api/send    - Submit a questionnaire

Admin (requires Authorization: Bearer <ADMIN_PASSWORD>):

	GET    /api/admin/submissions        - Newest first, ?limit=&offset=
	GET    /api/admin/submissions/{id}   - One submission
	DELETE /api/admin/submissions?id=    - Delete one submission
	GET    /api/admin/submissions/export - CSV of every submission
	GET    /api/admin/stats              - Totals

All routes except /health and / are wrapped with middleware.WithLogging.
Uses Go 1.22+ method and wildcard patterns.
*/
package router
