// Package shared holds the session, CSRF and context plumbing used by
// every portal route.
package shared

import "errors"

var (
	// ErrNoSession indicates a request reached a wizard route without a
	// usable session.
	ErrNoSession = errors.New("no session")
	// ErrNoWizard indicates the session holds no wizard of the requested
	// kind; the caller must start one first.
	ErrNoWizard = errors.New("no wizard in progress")
	// ErrCSRFTokenMissing occurs when the CSRF token is absent.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
