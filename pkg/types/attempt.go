// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Outcome classifies how a submission attempt ended.
type Outcome string

const (
	OutcomePreview         Outcome = "success_preview"
	OutcomeDownload        Outcome = "success_download"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeServerError     Outcome = "server_error"
	OutcomeNetworkError    Outcome = "network_error"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{
	OutcomePreview, OutcomeDownload, OutcomeValidationError, OutcomeServerError, OutcomeNetworkError,
}

// Succeeded reports whether the attempt reached a success state.
func (o Outcome) Succeeded() bool {
	return o == OutcomePreview || o == OutcomeDownload
}

// Attempt records a single submission from one operation module.
type Attempt struct {
	// ID is a random UUID assigned when the attempt starts.
	ID string `json:"id" yaml:"id"`

	Module   Mode   `json:"module" yaml:"module"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Files lists the base names of the uploaded files in upload order.
	Files []string `json:"files" yaml:"files"`

	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Status is the HTTP status code, or 0 when no response arrived.
	Status int `json:"status,omitempty" yaml:"status,omitempty"`

	// Message is the user-facing success or error text.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// SavedPath is where a downloaded artifact was written.
	SavedPath string `json:"saved_path,omitempty" yaml:"saved_path,omitempty"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration returns the wall time of the attempt.
func (a Attempt) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}
