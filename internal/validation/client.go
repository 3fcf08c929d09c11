// Package validation implements the per-step form validators. Validators
// are pure: they read a form snapshot and return a fresh error map, never
// touching the form or any shared state.
package validation

import (
	"regexp"
	"strings"

	"github.com/meridian-advisory/onboard/internal/forms"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	tfnPattern   = regexp.MustCompile(`^\d{9}$`)
)

// ValidateClientStep returns the field errors for one client wizard step.
// The returned map is always freshly allocated so stale errors from an
// earlier validation can never leak forward.
func ValidateClientStep(step int, f *forms.ClientFormData) map[string]string {
	errs := make(map[string]string)
	switch step {
	case 1:
		if strings.TrimSpace(f.FirstName) == "" {
			errs["firstName"] = "First name is required"
		}
		if strings.TrimSpace(f.LastName) == "" {
			errs["lastName"] = "Last name is required"
		}
		email := strings.TrimSpace(f.Email)
		if email == "" {
			errs["email"] = "Email is required"
		} else if !emailPattern.MatchString(email) {
			errs["email"] = "Email is invalid"
		}
		if f.TFN != "" && !tfnPattern.MatchString(f.TFN) {
			errs["tfn"] = "TFN must be 9 digits"
		}
	case 2:
		if f.ResidencyStatus == "" {
			errs["residencyStatus"] = "Residency status is required"
		}
	}
	// Steps 3-7 carry no blocking rules.
	return errs
}
