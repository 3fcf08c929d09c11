// Package wizard implements the step orchestrators for the client and
// accountant onboarding flows. The orchestrators are plain state machines
// over the form packages; all persistence goes through the gateway
// interfaces so tests drive them with in-memory fakes.
package wizard

import "time"

// SaveStatus reflects the most recent persistence attempt.
type SaveStatus string

const (
	StatusIdle      SaveStatus = "idle"
	StatusSaving    SaveStatus = "saving"
	StatusSaved     SaveStatus = "saved"
	StatusError     SaveStatus = "error"
	StatusCompleted SaveStatus = "completed"
)

// Display windows for transient statuses. A saved pill shows briefly; an
// error lingers a little longer so the user can read the message.
const (
	savedStatusWindow = 2 * time.Second
	errorStatusWindow = 3 * time.Second
)
