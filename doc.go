// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Facility Vision API server.

Facility Vision is a multi-section questionnaire about a planned training
facility. Respondents submit their answers to this server, which emails
them to the operator (with a copy to the respondent) and archives them for
the admin dashboard. The terminal client in cmd/respond walks a
respondent through the questions.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	ADMIN_PASSWORD=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." --admin-password ...

# Configuration

Required settings:

  - ADMIN_PASSWORD (--admin-password): Bearer token for the admin API

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): postgres://, redis:// or a SQLite path; empty keeps nothing
  - DATABASE_TYPE (-t): postgres, sqlite or redis (inferred from the URL)
  - RESEND_API_KEY, RECIPIENT_EMAIL, FROM_EMAIL: email delivery
  - CATALOG_PATH (--catalog): question catalog YAML
  - SEND_TIMEOUT (--send-timeout): delivery timeout per submission

Without RESEND_API_KEY submissions are accepted with a warning; without
DATABASE_URL they are not archived.

# Architecture

  - catalog: Question sections loaded from YAML
  - response: Typed answers, completion rules and formatting
  - progress: Section and overall completion
  - submission: Payloads and the delivery pipeline
  - autosave: Debounced local progress for the client
  - session: Respondent flow state machine
  - notify: Email, HTTP and no-op delivery
  - store: Postgres, SQLite, Redis and no-op archives
  - export: CSV and stats for admins
  - handlers, router, middleware, models, auth: HTTP surface
  - db: Connections and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
