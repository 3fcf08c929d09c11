// Package gateway translates wizard form state into core API payloads and
// performs the HTTP exchange. Every call resolves to a uniform result
// carrying success, optional data and a human-readable message; no method
// returns a Go error, so callers never need their own failure plumbing.
package gateway

import "github.com/meridian-advisory/onboard/internal/forms"

// Status is the uniform outcome shared by every gateway call.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK is the successful Status with no message.
var OK = Status{Success: true}

// Fail builds a failed Status.
func Fail(message string) Status {
	return Status{Success: false, Message: message}
}

// StepResult is the outcome of a per-step save. ClientID is populated on a
// successful personal-info save.
type StepResult struct {
	Status
	ClientID int64 `json:"clientId,omitempty"`
}

// EntityResult is the outcome of an entity upsert. ID carries the
// server-assigned identifier on create.
type EntityResult struct {
	Status
	ID int64 `json:"id,omitempty"`
}

// ClientResult is the outcome of fetching a saved client for resume.
type ClientResult struct {
	Status
	Client *forms.ClientFormData `json:"client,omitempty"`
}

// SessionResult is the outcome of creating an identity-verification
// session. The client secret is consumed by the embedded widget.
type SessionResult struct {
	Status
	ClientSecret string `json:"clientSecret,omitempty"`
}
