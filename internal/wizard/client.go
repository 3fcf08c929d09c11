package wizard

import (
	"context"
	"time"

	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/validation"
)

// Client wizard steps.
const (
	StepPersonal         = 1
	StepAddressResidency = 2
	StepFamily           = 3
	StepIncomeBanking    = 4
	StepBusinessEntities = 5
	StepReview           = 6
	StepAgreements       = 7

	firstStep = StepPersonal
	lastStep  = StepAgreements
)

// ClientGateway is the persistence surface the client wizard depends on.
type ClientGateway interface {
	SaveStepData(ctx context.Context, f *forms.ClientFormData, step int) gateway.StepResult
	SaveBusinessEntity(ctx context.Context, typ forms.EntityType, entity any, clientID int64) gateway.EntityResult
	DeleteBusinessEntity(ctx context.Context, typ forms.EntityType, id int64) gateway.Status
	RegisterClient(ctx context.Context, f *forms.ClientFormData) gateway.Status
	GetClientByID(ctx context.Context, id int64) gateway.ClientResult
}

// Policy names the orchestrator's debatable behaviors explicitly.
// SoftFailAdvance keeps the historical behavior of advancing past a step
// whose save failed (all steps except personal info, whose client id is a
// hard dependency for everything after it). Flip it off only with product
// sign-off: turning it into a hard block changes what users can reach.
type Policy struct {
	SoftFailAdvance bool `json:"softFailAdvance"`
}

// DefaultPolicy matches the observed production behavior.
var DefaultPolicy = Policy{SoftFailAdvance: true}

// ClientWizard drives the seven-step client registration. The exported
// fields round-trip through the session store; the gateway, clock and
// completion hook are reattached on every load.
type ClientWizard struct {
	Form   forms.ClientFormData `json:"form"`
	Step   int                  `json:"step"`
	Errors map[string]string    `json:"errors"`
	Policy Policy               `json:"policy"`

	Status        SaveStatus `json:"status"`
	StatusMessage string     `json:"statusMessage,omitempty"`
	StatusExpiry  time.Time  `json:"statusExpiry,omitempty"`

	// SaveGen is bumped on every navigation; entity save responses carry
	// the generation they were issued under and are discarded when stale.
	SaveGen uint64 `json:"saveGen"`

	// EntityBusy tracks in-flight per-entity saves keyed by type:index so
	// one entity cannot have two concurrent saves while a different
	// entity still can.
	EntityBusy map[string]bool `json:"entityBusy,omitempty"`

	gw         ClientGateway
	onComplete func()
	now        func() time.Time
}

// NewClientWizard starts a fresh wizard, pre-filling the signed-in user's
// email when known.
func NewClientWizard(gw ClientGateway, email string) *ClientWizard {
	return &ClientWizard{
		Form:   *forms.NewClientFormData(email),
		Step:   firstStep,
		Errors: map[string]string{},
		Policy: DefaultPolicy,
		Status: StatusIdle,
		gw:     gw,
		now:    time.Now,
	}
}

// Attach re-binds the runtime dependencies after the wizard is loaded from
// the session store.
func (w *ClientWizard) Attach(gw ClientGateway, onComplete func()) {
	w.gw = gw
	w.onComplete = onComplete
	if w.now == nil {
		w.now = time.Now
	}
}

// SetClock overrides the wizard clock.
func (w *ClientWizard) SetClock(now func() time.Time) { w.now = now }

// SetField applies one field change and clears that field's error, so a
// keystroke immediately retracts the stale message.
func (w *ClientWizard) SetField(name string, value any) error {
	if err := w.Form.SetField(name, value); err != nil {
		return err
	}
	delete(w.Errors, name)
	return nil
}

// Tick expires a transient status. Handlers call it before rendering.
func (w *ClientWizard) Tick() {
	if w.Status == StatusSaved || w.Status == StatusError {
		if !w.StatusExpiry.IsZero() && w.now().After(w.StatusExpiry) {
			w.Status = StatusIdle
			w.StatusMessage = ""
			w.StatusExpiry = time.Time{}
		}
	}
}

func (w *ClientWizard) setStatus(s SaveStatus, message string, window time.Duration) {
	w.Status = s
	w.StatusMessage = message
	if window > 0 {
		w.StatusExpiry = w.now().Add(window)
	} else {
		w.StatusExpiry = time.Time{}
	}
}

func (w *ClientWizard) bumpGen() { w.SaveGen++ }

// GoNext validates the current step and, when valid, persists it and
// advances. The business-entities step advances with no step-level save
// since its entities persist individually. A personal-info save failure
// blocks outright: the client id it returns gates every later entity save.
// Failures on any other step surface an error but still advance under the
// soft-fail policy.
func (w *ClientWizard) GoNext(ctx context.Context) {
	w.Errors = validation.ValidateClientStep(w.Step, &w.Form)
	if len(w.Errors) > 0 {
		return
	}

	if w.Step == StepBusinessEntities {
		w.Step++
		w.bumpGen()
		return
	}

	w.setStatus(StatusSaving, "", 0)
	res := w.gw.SaveStepData(ctx, &w.Form, w.Step)
	if res.Success {
		if w.Step == StepPersonal && w.Form.ClientID == 0 && res.ClientID != 0 {
			w.Form.ClientID = res.ClientID
		}
		w.setStatus(StatusSaved, "", savedStatusWindow)
		if w.Step < lastStep {
			w.Step++
		}
		w.bumpGen()
		return
	}

	w.setStatus(StatusError, res.Message, errorStatusWindow)
	if w.Step == StepPersonal {
		return
	}
	if w.Policy.SoftFailAdvance && w.Step < lastStep {
		w.Step++
	}
	w.bumpGen()
}

// GoPrevious steps back one page. Never validated, never persisted.
func (w *ClientWizard) GoPrevious() {
	if w.Step > firstStep {
		w.Step--
	}
	w.bumpGen()
}

// Submit performs final registration from the agreements step. The
// agreements sub-save is best-effort (its data rides along in the register
// aggregate anyway); a register failure leaves the wizard on the last step
// for retry.
func (w *ClientWizard) Submit(ctx context.Context) bool {
	if w.Step != lastStep {
		return false
	}
	w.Errors = validation.ValidateClientStep(w.Step, &w.Form)
	if len(w.Errors) > 0 {
		return false
	}

	w.setStatus(StatusSaving, "", 0)
	if res := w.gw.SaveStepData(ctx, &w.Form, w.Step); !res.Success {
		w.setStatus(StatusError, res.Message, errorStatusWindow)
		// Soft failure: the register aggregate repeats the agreements.
	}

	res := w.gw.RegisterClient(ctx, &w.Form)
	if !res.Success {
		w.setStatus(StatusError, res.Message, errorStatusWindow)
		return false
	}

	w.setStatus(StatusCompleted, "Registration complete", 0)
	if w.onComplete != nil {
		w.onComplete()
	}
	return true
}

// Resume replaces the form with a previously saved client record.
func (w *ClientWizard) Resume(ctx context.Context, clientID int64) bool {
	res := w.gw.GetClientByID(ctx, clientID)
	if !res.Success || res.Client == nil {
		w.setStatus(StatusError, res.Message, errorStatusWindow)
		return false
	}
	w.Form = *res.Client
	w.bumpGen()
	return true
}
