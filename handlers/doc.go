// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Facility Vision API.

# Handler Types

Each handler is a struct holding its dependencies:

  - SubmitHandler: accepts submissions, delivers and archives them
  - AdminHandler: lists, exports, summarizes and deletes archived submissions
  - CatalogHandler: serves the question catalog

	submitHandler := handlers.NewSubmitHandler(cat, sink, st, cfg)

The sink and store are chosen at startup; when email or the archive is
not configured the Unconfigured implementations are passed in and the
handlers behave the same way.

# Submitting

	POST /api/send → Send

The body is a submission payload. Responses are decoded against the
catalog, so each answer takes the shape of its question's type.
Missing name or email, or a completion rate outside 0..100, is a 400.
The reply is {"success", "warning"?, "error"?}:

  - delivered, possibly with a warning about one failed email: 200
  - nothing delivered: 500 with a message safe to show the respondent

Delivered submissions are archived. Archive failures are logged only.

# Admin API

Every admin route requires "Authorization: Bearer <ADMIN_PASSWORD>":

	GET    /api/admin/submissions?limit=&offset= → List
	GET    /api/admin/submissions/{id}          → Get
	DELETE /api/admin/submissions?id=           → Delete
	GET    /api/admin/submissions/export        → Export (text/csv)
	GET    /api/admin/stats                     → Stats
*/
package handlers
