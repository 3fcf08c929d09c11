// Package portal exposes the onboarding wizards over HTTP. Wizard state
// lives in the server session; every mutating route loads it, applies one
// operation and writes it back, so the frontend stays a thin view.
package portal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/platform/httpx"
	"github.com/meridian-advisory/onboard/internal/shared"
	"github.com/meridian-advisory/onboard/internal/wizard"
)

// Session keys for wizard state.
const (
	clientWizardKey     = "client_wizard"
	accountantWizardKey = "accountant_wizard"
	completeFlagKey     = "registration_complete"
)

// Gateway is the full core API surface the portal depends on.
type Gateway interface {
	wizard.ClientGateway
	wizard.AccountantGateway
	ProvisionClient(ctx context.Context, firstName, lastName, email string) gateway.Status
	CreateVerificationSession(ctx context.Context, userID, email, role string) gateway.SessionResult
}

// Handler wires the onboarding routes.
type Handler struct {
	logger      *slog.Logger
	gw          Gateway
	csrf        *shared.CSRFManager
	verifyKey   string
	verifyGroup singleflight.Group
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, gw Gateway, csrf *shared.CSRFManager, verifyKey string) *Handler {
	return &Handler{logger: logger, gw: gw, csrf: csrf, verifyKey: verifyKey}
}

// MountRoutes registers the onboarding routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/session", h.sessionInfo)
	r.Route("/client", func(r chi.Router) {
		r.Post("/start", h.clientStart)
		r.Get("/state", h.clientState)
		r.Post("/fields", h.clientField)
		r.Post("/next", h.clientNext)
		r.Post("/previous", h.clientPrevious)
		r.Post("/submit", h.clientSubmit)
		r.Post("/resume", h.clientResume)
		r.Route("/entities/{type}", func(r chi.Router) {
			r.Post("/", h.entityAdd)
			r.Post("/{index}/fields", h.entityField)
			r.Post("/{index}/banking-mode", h.entityBankingMode)
			r.Post("/{index}/list-items", h.entityListOp)
			r.Post("/{index}/save", h.entitySave)
			r.Post("/{index}/delete", h.entityDelete)
			r.Post("/{index}/discard", h.entityDiscard)
		})
	})
	r.Route("/accountant", func(r chi.Router) {
		r.Post("/start", h.accountantStart)
		r.Get("/state", h.accountantState)
		r.Post("/fields", h.accountantField)
		r.Post("/next", h.accountantNext)
		r.Post("/back", h.accountantBack)
	})
	r.Post("/provision", h.provision)
	r.Get("/verification/config", h.verificationConfig)
	r.Post("/verification/session", h.verificationSession)
}

func (h *Handler) session(r *http.Request) *shared.Session {
	return shared.SessionFromContext(r.Context())
}

// sessionInfo bootstraps a browser session: it issues the CSRF token every
// mutating route demands and reports which wizards are in progress.
func (h *Handler) sessionInfo(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess == nil {
		h.fail(rw, shared.ErrNoSession)
		return
	}
	token, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.fail(rw, err)
		return
	}
	httpx.JSON(rw, http.StatusOK, map[string]any{
		"csrfToken":            token,
		"clientWizard":         sess.Get(clientWizardKey) != "",
		"accountantWizard":     sess.Get(accountantWizardKey) != "",
		"registrationComplete": sess.Get(completeFlagKey) == "1",
	})
}

// loadClientWizard reads the wizard out of the session and re-binds its
// runtime dependencies. The completion hook flips a session flag the
// routing shell reads.
func (h *Handler) loadClientWizard(sess *shared.Session) (*wizard.ClientWizard, error) {
	if sess == nil {
		return nil, shared.ErrNoSession
	}
	raw := sess.Get(clientWizardKey)
	if raw == "" {
		return nil, shared.ErrNoWizard
	}
	var w wizard.ClientWizard
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, err
	}
	w.Attach(h.gw, func() { sess.Set(completeFlagKey, "1") })
	w.RepairBanking()
	return &w, nil
}

func (h *Handler) saveClientWizard(sess *shared.Session, w *wizard.ClientWizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	sess.Set(clientWizardKey, string(data))
	return nil
}

func (h *Handler) loadAccountantWizard(sess *shared.Session) (*wizard.AccountantWizard, error) {
	if sess == nil {
		return nil, shared.ErrNoSession
	}
	raw := sess.Get(accountantWizardKey)
	if raw == "" {
		return nil, shared.ErrNoWizard
	}
	var w wizard.AccountantWizard
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, err
	}
	w.Attach(h.gw)
	return &w, nil
}

func (h *Handler) saveAccountantWizard(sess *shared.Session, w *wizard.AccountantWizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	sess.Set(accountantWizardKey, string(data))
	return nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Warn("portal request failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}

func entityTypeParam(r *http.Request) (forms.EntityType, bool) {
	typ := forms.EntityType(chi.URLParam(r, "type"))
	return typ, typ.Valid()
}
