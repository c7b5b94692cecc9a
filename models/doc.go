// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the JSON response types of the API.

The submit endpoint speaks submission.Payload and submission.Result
directly; this package covers the admin API and errors.

# Response Types

  - SubmissionsResponse: submissions, total
  - DeleteResponse: success
  - StatsResponse: total, averageCompletion, fullCompletions
  - ErrorResponse: error, message

Unauthorized admin requests get an ErrorResponse with only error set:

	{"error": "Unauthorized"}
*/
package models
