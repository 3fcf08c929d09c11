package wizard

import (
	"context"

	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/validation"
)

// AccountantGateway is the persistence surface of the accountant wizard:
// a single deferred registration call.
type AccountantGateway interface {
	RegisterAccountant(ctx context.Context, f *forms.AccountantFormData) gateway.Status
}

// AccountantWizard drives the four-stage accountant registration. All
// input is buffered locally across the first three stages and submitted
// once at the transition out of practice details; the confirmation stage
// is terminal.
type AccountantWizard struct {
	Form   forms.AccountantFormData `json:"form"`
	Stage  int                      `json:"stage"`
	Errors map[string]string        `json:"errors"`

	// Banner carries the parsed server error after a failed registration.
	Banner string `json:"banner,omitempty"`

	Completed bool `json:"completed"`

	gw AccountantGateway
}

// NewAccountantWizard starts a fresh accountant registration.
func NewAccountantWizard(gw AccountantGateway) *AccountantWizard {
	return &AccountantWizard{
		Stage:  validation.StagePersonal,
		Errors: map[string]string{},
		gw:     gw,
	}
}

// Attach re-binds the gateway after the wizard is loaded from the session.
func (w *AccountantWizard) Attach(gw AccountantGateway) { w.gw = gw }

// SetField applies one field change. Edits are refused once the wizard
// reached the terminal confirmation stage.
func (w *AccountantWizard) SetField(name string, value any) error {
	if w.Stage == validation.StageConfirmation {
		return errTerminalStage
	}
	if err := w.Form.SetField(name, value); err != nil {
		return err
	}
	delete(w.Errors, name)
	return nil
}

// GoNext validates the current stage and advances. The transition out of
// practice details performs the one-shot registration: success lands on
// the terminal confirmation stage, failure stays put with the parsed
// server message in the banner.
func (w *AccountantWizard) GoNext(ctx context.Context) {
	if w.Stage >= validation.StageConfirmation {
		return
	}
	w.Banner = ""
	w.Errors = validation.ValidateAccountantStage(w.Stage, &w.Form)
	if len(w.Errors) > 0 {
		return
	}

	if w.Stage != validation.StagePractice {
		w.Stage++
		return
	}

	res := w.gw.RegisterAccountant(ctx, &w.Form)
	if !res.Success {
		w.Banner = res.Message
		return
	}
	w.Stage = validation.StageConfirmation
	w.Completed = true
}

// GoBack steps back one stage. Allowed from the password and practice
// stages only; the confirmation stage is irreversible.
func (w *AccountantWizard) GoBack() {
	if w.Stage == validation.StagePassword || w.Stage == validation.StagePractice {
		w.Stage--
	}
}
