package models

import "github.com/danielhkuo/facility-vision/submission"

// Response types

// SubmissionsResponse is the admin listing page.
type SubmissionsResponse struct {
	Submissions []submission.Stored `json:"submissions"`
	Total       int                 `json:"total"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// StatsResponse summarizes every archived submission.
type StatsResponse struct {
	Total             int `json:"total"`
	AverageCompletion int `json:"averageCompletion"`
	FullCompletions   int `json:"fullCompletions"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
