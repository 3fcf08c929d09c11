package portal

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/platform/httpx"
	"github.com/meridian-advisory/onboard/internal/review"
	"github.com/meridian-advisory/onboard/internal/shared"
	"github.com/meridian-advisory/onboard/internal/wizard"
)

// clientStateView is the wizard snapshot returned to the frontend after
// every operation.
type clientStateView struct {
	Step          int               `json:"step"`
	Errors        map[string]string `json:"errors"`
	Status        wizard.SaveStatus `json:"status"`
	StatusMessage string            `json:"statusMessage,omitempty"`
	Form          any               `json:"form"`
	Review        []review.Section  `json:"review,omitempty"`
	Complete      bool              `json:"complete"`
	CSRFToken     string            `json:"csrfToken,omitempty"`
}

func (h *Handler) clientView(w *wizard.ClientWizard, complete bool, csrfToken string) clientStateView {
	w.Tick()
	view := clientStateView{
		Step:          w.Step,
		Errors:        w.Errors,
		Status:        w.Status,
		StatusMessage: w.StatusMessage,
		Form:          &w.Form,
		Complete:      complete,
		CSRFToken:     csrfToken,
	}
	if w.Step >= wizard.StepReview {
		view.Review = review.Summarize(&w.Form)
	}
	return view
}

func (h *Handler) respondClient(rw http.ResponseWriter, r *http.Request, w *wizard.ClientWizard) {
	sess := h.session(r)
	if err := h.saveClientWizard(sess, w); err != nil {
		h.fail(rw, err)
		return
	}
	httpx.JSON(rw, http.StatusOK, h.clientView(w, sess.Get(completeFlagKey) == "1", ""))
}

func (h *Handler) clientStart(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess == nil {
		h.fail(rw, shared.ErrNoSession)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	_ = httpx.DecodeJSON(r, &body) // empty body means a fresh anonymous start

	w := wizard.NewClientWizard(h.gw, body.Email)
	w.Attach(h.gw, func() { sess.Set(completeFlagKey, "1") })
	sess.Delete(completeFlagKey)
	h.respondClient(rw, r, w)
}

func (h *Handler) clientState(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	w, err := h.loadClientWizard(sess)
	if err != nil {
		h.fail(rw, err)
		return
	}
	token, _ := h.csrf.EnsureToken(sess)
	httpx.JSON(rw, http.StatusOK, h.clientView(w, sess.Get(completeFlagKey) == "1", token))
}

func (h *Handler) clientField(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadClientWizard(h.session(r))
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
	h.respondClient(rw, r, w)
}

func (h *Handler) clientNext(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	w.GoNext(r.Context())
	h.respondClient(rw, r, w)
}

func (h *Handler) clientPrevious(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	w.GoPrevious()
	h.respondClient(rw, r, w)
}

func (h *Handler) clientSubmit(rw http.ResponseWriter, r *http.Request) {
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	w.Submit(r.Context())
	h.respondClient(rw, r, w)
}

func (h *Handler) clientResume(rw http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess == nil {
		h.fail(rw, shared.ErrNoSession)
		return
	}
	var body struct {
		ClientID int64 `json:"clientId"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.ClientID == 0 {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "clientId is required")
		return
	}
	w, err := h.loadClientWizard(sess)
	if err != nil {
		w = wizard.NewClientWizard(h.gw, "")
		w.Attach(h.gw, func() { sess.Set(completeFlagKey, "1") })
	}
	w.Resume(r.Context(), body.ClientID)
	h.respondClient(rw, r, w)
}

// Entity routes. Failures surface per-operation in the response body and
// never block wizard navigation.

type entityOpResponse struct {
	Result gateway.Status  `json:"result"`
	State  clientStateView `json:"state"`
}

func (h *Handler) respondEntityOp(rw http.ResponseWriter, r *http.Request, w *wizard.ClientWizard, result gateway.Status) {
	sess := h.session(r)
	if err := h.saveClientWizard(sess, w); err != nil {
		h.fail(rw, err)
		return
	}
	httpx.JSON(rw, http.StatusOK, entityOpResponse{
		Result: result,
		State:  h.clientView(w, sess.Get(completeFlagKey) == "1", ""),
	})
}

func (h *Handler) entityAdd(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	if !ok {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity type")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	if err := w.AddEntity(typ); err != nil {
		h.respondEntityOp(rw, r, w, gateway.Fail(err.Error()))
		return
	}
	h.respondEntityOp(rw, r, w, gateway.OK)
}

func (h *Handler) entityIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	return idx, err == nil && idx >= 0
}

func (h *Handler) entityField(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
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
	if err := w.UpdateEntityField(typ, idx, body.Field, body.Value); err != nil {
		h.respondEntityOp(rw, r, w, gateway.Fail(err.Error()))
		return
	}
	h.respondEntityOp(rw, r, w, gateway.OK)
}

func (h *Handler) entityBankingMode(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	var body struct {
		UsePrimaryBanking bool `json:"usePrimaryBanking"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}
	if err := w.SetEntityBankingMode(typ, idx, body.UsePrimaryBanking); err != nil {
		h.respondEntityOp(rw, r, w, gateway.Fail(err.Error()))
		return
	}
	h.respondEntityOp(rw, r, w, gateway.OK)
}

func (h *Handler) entityListOp(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	var body struct {
		List      string `json:"list"`
		Op        string `json:"op"`
		ItemIndex int    `json:"itemIndex"`
		Value     string `json:"value"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}
	var opErr error
	switch body.Op {
	case "add":
		opErr = w.AddEntityListItem(typ, idx, body.List)
	case "update":
		opErr = w.UpdateEntityListItem(typ, idx, body.List, body.ItemIndex, body.Value)
	case "remove":
		opErr = w.RemoveEntityListItem(typ, idx, body.List, body.ItemIndex)
	default:
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown list op")
		return
	}
	if opErr != nil {
		h.respondEntityOp(rw, r, w, gateway.Fail(opErr.Error()))
		return
	}
	h.respondEntityOp(rw, r, w, gateway.OK)
}

func (h *Handler) entitySave(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	h.respondEntityOp(rw, r, w, w.SaveEntity(r.Context(), typ, idx))
}

func (h *Handler) entityDelete(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || !body.Confirm {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "deletion requires confirmation")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	h.respondEntityOp(rw, r, w, w.DeleteEntity(r.Context(), typ, idx))
}

func (h *Handler) entityDiscard(rw http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	idx, okIdx := h.entityIndex(r)
	if !ok || !okIdx {
		httpx.Problem(rw, http.StatusBadRequest, "Bad Request", "unknown entity")
		return
	}
	w, err := h.loadClientWizard(h.session(r))
	if err != nil {
		h.fail(rw, err)
		return
	}
	if err := w.DiscardEntity(typ, idx); err != nil {
		h.respondEntityOp(rw, r, w, gateway.Fail(err.Error()))
		return
	}
	h.respondEntityOp(rw, r, w, gateway.OK)
}
