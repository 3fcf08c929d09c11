package portal

import (
	"net/http"

	"github.com/meridian-advisory/onboard/internal/platform/httpx"
	"github.com/meridian-advisory/onboard/internal/shared"
	"github.com/meridian-advisory/onboard/internal/wizard"
)

type accountantStateView struct {
	Stage     int               `json:"stage"`
	Errors    map[string]string `json:"errors"`
	Banner    string            `json:"banner,omitempty"`
	Completed bool              `json:"completed"`
	Form      any               `json:"form"`
	CSRFToken string            `json:"csrfToken,omitempty"`
}

func accountantView(w *wizard.AccountantWizard, csrfToken string) accountantStateView {
	return accountantStateView{
		Stage:     w.Stage,
		Errors:    w.Errors,
		Banner:    w.Banner,
		Completed: w.Completed,
		Form:      &w.Form,
		CSRFToken: csrfToken,
	}
}

func (h *Handler) respondAccountant(rw http.ResponseWriter, r *http.Request, w *wizard.AccountantWizard) {
	if err := h.saveAccountantWizard(h.session(r), w); err != nil {
		h.fail(rw, err)
		return
	}
	httpx.JSON(rw, http.StatusOK, accountantView(w, ""))
}

func (h *Handler) accountantStart(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess == nil {
		h.fail(rw, shared.ErrNoSession)
		return
	}
	w := wizard.NewAccountantWizard(h.gw)
	h.respondAccountant(rw, r, w)
}

func (h *Handler) accountantState(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	w, err := h.loadAccountantWizard(sess)
	if err != nil {
		h.fail(rw, err)
		return
	}
	token, _ := h.csrf.EnsureToken(sess)
	httpx.JSON(rw, http.StatusOK, accountantView(w, token))
}

func (h *Handler) accountantField(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadAccountantWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	var body struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}
	if err := w.SetField(body.Field, body.Value); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	h.respondAccountant(rw, r, w)
}

func (h *Handler) accountantNext(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadAccountantWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	w.GoNext(r.Context())
	h.respondAccountant(rw, r, w)
}

func (h *Handler) accountantBack(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadAccountantWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	w.GoBack()
	h.respondAccountant(rw, r, w)
}

// provision creates a minimal client record for an accountant-invited
// user; the core API generates the password and emails the invitation.
func (h *Handler) provision(rw http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}
	if body.FirstName == "" || body.LastName == "" || body.Email == "" {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "firstName, lastName and email are required")
		return
	}
	res := h.gw.ProvisionClient(r.Context(), body.FirstName, body.LastName, body.Email)
	httpx.JSON(rw, http.StatusOK, res)
}

// verificationConfig exposes the publishable widget key. The key comes
// from runtime configuration, never from source.
func (h *Handler) verificationConfig(rw http.ResponseWriter, r *http.Request) {
	httpx.JSON(rw, http.StatusOK, map[string]string{"publishableKey": h.verifyKey})
}

// verificationSession opens an identity-verification session. Repeated
// clicks for the same user while a request is in flight share one call.
func (h *Handler) verificationSession(rw http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}
	if body.UserID == "" || body.Email == "" {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "userId and email are required")
		return
	}
	out, err, _ := h.verifyGroup.Do(body.UserID, func() (any, error) {
		return h.gw.CreateVerificationSession(r.Context(), body.UserID, body.Email, body.Role), nil
	})
	if err != nil {
		h.fail(rw, err)
		return
	}
	httpx.JSON(rw, http.StatusOK, out)
}
