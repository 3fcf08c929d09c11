package portal_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/onboard/internal/app"
	"github.com/meridian-advisory/onboard/internal/forms"
	"github.com/meridian-advisory/onboard/internal/gateway"
	"github.com/meridian-advisory/onboard/internal/portal"
	"github.com/meridian-advisory/onboard/internal/shared"
)

// stubGateway serves canned success for every core API call.
type stubGateway struct {
	clientID     int64
	entityID     int64
	sessionCalls int

	mu          sync.Mutex
	entitySaves int
	// entityIDs, when set, are handed out one per save in call order
	// instead of entityID.
	entityIDs []int64
	// onEntitySave observes or stalls a save; it receives the 1-based
	// call order.
	onEntitySave func(call int)
}

func (s *stubGateway) SaveStepData(_ context.Context, _ *forms.ClientFormData, step int) gateway.StepResult {
	res := gateway.StepResult{Status: gateway.OK}
	if step == 1 {
		res.ClientID = s.clientID
	}
	return res
}

func (s *stubGateway) SaveBusinessEntity(context.Context, forms.EntityType, any, int64) gateway.EntityResult {
	s.mu.Lock()
	s.entitySaves++
	call := s.entitySaves
	id := s.entityID
	if len(s.entityIDs) > 0 {
		id = s.entityIDs[0]
		s.entityIDs = s.entityIDs[1:]
	}
	hook := s.onEntitySave
	s.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return gateway.EntityResult{Status: gateway.OK, ID: id}
}

func (s *stubGateway) DeleteBusinessEntity(context.Context, forms.EntityType, int64) gateway.Status {
	return gateway.OK
}

func (s *stubGateway) RegisterClient(context.Context, *forms.ClientFormData) gateway.Status {
	return gateway.OK
}

func (s *stubGateway) GetClientByID(context.Context, int64) gateway.ClientResult {
	return gateway.ClientResult{Status: gateway.OK, Client: &forms.ClientFormData{ClientID: 42, FirstName: "Jane"}}
}

func (s *stubGateway) RegisterAccountant(context.Context, *forms.AccountantFormData) gateway.Status {
	return gateway.OK
}

func (s *stubGateway) ProvisionClient(context.Context, string, string, string) gateway.Status {
	return gateway.OK
}

func (s *stubGateway) CreateVerificationSession(context.Context, string, string, string) gateway.SessionResult {
	s.sessionCalls++
	return gateway.SessionResult{Status: gateway.OK, ClientSecret: "vs_secret_123"}
}

// portalClient drives the mounted router the way a browser would, carrying
// the session cookie and CSRF token across requests. Safe for concurrent
// requests on the same session.
type portalClient struct {
	t      *testing.T
	router http.Handler

	mu     sync.Mutex
	cookie *http.Cookie
	token  string
}

func newPortal(t *testing.T) (*portalClient, *stubGateway) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm := shared.NewSessionManager(rdb, "onboard_session", time.Hour, false)
	csrf := shared.NewCSRFManager("test-secret")
	gw := &stubGateway{clientID: 42, entityID: 7}
	handler := portal.NewHandler(logger, gw, csrf, "pk_test_123")

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         &app.Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		SessionManager: sm,
		CSRFManager:    csrf,
		PortalHandler:  handler,
	})

	pc := &portalClient{t: t, router: router}
	pc.bootstrap()
	return pc, gw
}

func (c *portalClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.token != "" {
		req.Header.Set(shared.CSRFHeader, c.token)
	}
	c.mu.Unlock()
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "onboard_session" && ck.Value != "" {
			c.mu.Lock()
			c.cookie = ck
			c.mu.Unlock()
		}
	}
	return rec
}

// bootstrap performs the session handshake that issues the CSRF token.
func (c *portalClient) bootstrap() {
	rec := c.do(http.MethodGet, "/onboarding/session", nil)
	require.Equal(c.t, http.StatusOK, rec.Code)
	var body struct {
		CSRFToken    string `json:"csrfToken"`
		ClientWizard bool   `json:"clientWizard"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(c.t, body.CSRFToken)
	require.False(c.t, body.ClientWizard)
	c.token = body.CSRFToken
}

type stateResponse struct {
	Step   int               `json:"step"`
	Errors map[string]string `json:"errors"`
	Status string            `json:"status"`
	Form   struct {
		ClientID  int64  `json:"clientId"`
		FirstName string `json:"firstName"`
		Companies []struct {
			ID int64 `json:"id"`
		} `json:"companies"`
	} `json:"form"`
	Review   []map[string]any `json:"review"`
	Complete bool             `json:"complete"`
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var s stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestClientWizardOverHTTP(t *testing.T) {
	pc, _ := newPortal(t)

	rec := pc.do(http.MethodPost, "/onboarding/client/start", map[string]any{"email": "jane@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	require.Equal(t, 1, state.Step)

	// Advancing with blank required fields stays on step one.
	rec = pc.do(http.MethodPost, "/onboarding/client/next", nil)
	state = decodeState(t, rec)
	require.Equal(t, 1, state.Step)
	require.Contains(t, state.Errors, "firstName")

	for field, value := range map[string]any{"firstName": "Jane", "lastName": "Doe"} {
		rec = pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": field, "value": value})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = pc.do(http.MethodPost, "/onboarding/client/next", nil)
	state = decodeState(t, rec)
	require.Equal(t, 2, state.Step)
	require.Equal(t, int64(42), state.Form.ClientID, "server id persists across requests")

	rec = pc.do(http.MethodPost, "/onboarding/client/previous", nil)
	state = decodeState(t, rec)
	require.Equal(t, 1, state.Step)
	require.Equal(t, "Jane", state.Form.FirstName)
}

func TestEntityLifecycleOverHTTP(t *testing.T) {
	pc, _ := newPortal(t)

	pc.do(http.MethodPost, "/onboarding/client/start", nil)
	// Walk to the client id: a valid personal-info save assigns it.
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "firstName", "value": "Jane"})
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "lastName", "value": "Doe"})
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "email", "value": "jane@example.com"})
	pc.do(http.MethodPost, "/onboarding/client/next", nil)

	rec := pc.do(http.MethodPost, "/onboarding/client/entities/company/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = pc.do(http.MethodPost, "/onboarding/client/entities/company/0/fields",
		map[string]any{"field": "abn", "value": "51824753556"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = pc.do(http.MethodPost, "/onboarding/client/entities/company/0/save", nil)
	var op struct {
		Result gateway.Status `json:"result"`
		State  stateResponse  `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &op))
	require.True(t, op.Result.Success)
	require.Equal(t, int64(7), op.State.Form.Companies[0].ID)

	// Deleting a saved entity needs explicit confirmation.
	rec = pc.do(http.MethodPost, "/onboarding/client/entities/company/0/delete", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = pc.do(http.MethodPost, "/onboarding/client/entities/company/0/delete", map[string]any{"confirm": true})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &op))
	require.True(t, op.Result.Success)
	require.Empty(t, op.State.Form.Companies)
}

func TestOverlappingEntitySavesKeepBothServerIDs(t *testing.T) {
	pc, gw := newPortal(t)
	gw.entityIDs = []int64{100, 200}

	pc.do(http.MethodPost, "/onboarding/client/start", nil)
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "firstName", "value": "Jane"})
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "lastName", "value": "Doe"})
	pc.do(http.MethodPost, "/onboarding/client/fields", map[string]any{"field": "email", "value": "jane@example.com"})
	pc.do(http.MethodPost, "/onboarding/client/next", nil)
	pc.do(http.MethodPost, "/onboarding/client/entities/company/", nil)
	pc.do(http.MethodPost, "/onboarding/client/entities/company/", nil)

	// Stall the first save at the core API while a second save for the
	// sibling company arrives on the same session.
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	gw.onEntitySave = func(call int) {
		if call == 1 {
			close(firstEntered)
			<-releaseFirst
		}
	}

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		firstDone <- pc.do(http.MethodPost, "/onboarding/client/entities/company/0/save", nil)
	}()
	<-firstEntered

	secondDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		secondDone <- pc.do(http.MethodPost, "/onboarding/client/entities/company/1/save", nil)
	}()

	// Let the second request queue behind the session, then finish the
	// stalled save.
	time.Sleep(50 * time.Millisecond)
	close(releaseFirst)

	for _, ch := range []chan *httptest.ResponseRecorder{firstDone, secondDone} {
		select {
		case rec := <-ch:
			require.Equal(t, http.StatusOK, rec.Code)
			var op struct {
				Result gateway.Status `json:"result"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &op))
			require.True(t, op.Result.Success)
		case <-time.After(5 * time.Second):
			t.Fatal("save request did not finish")
		}
	}

	// Both server ids survive: the second commit must not overwrite the
	// first save's write-back with the stale snapshot it loaded.
	state := decodeState(t, pc.do(http.MethodGet, "/onboarding/client/state", nil))
	require.Len(t, state.Form.Companies, 2)
	require.Equal(t, int64(100), state.Form.Companies[0].ID)
	require.Equal(t, int64(200), state.Form.Companies[1].ID)
}

func TestMutatingRouteRequiresCSRF(t *testing.T) {
	pc, _ := newPortal(t)
	pc.token = ""

	rec := pc.do(http.MethodPost, "/onboarding/client/start", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStateWithoutWizardConflicts(t *testing.T) {
	pc, _ := newPortal(t)
	rec := pc.do(http.MethodGet, "/onboarding/client/state", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAccountantWizardOverHTTP(t *testing.T) {
	pc, _ := newPortal(t)

	rec := pc.do(http.MethodPost, "/onboarding/accountant/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	fields := map[string]any{
		"firstName": "Alex", "lastName": "Chen", "email": "alex@practice.com.au",
	}
	for field, value := range fields {
		pc.do(http.MethodPost, "/onboarding/accountant/fields", map[string]any{"field": field, "value": value})
	}
	rec = pc.do(http.MethodPost, "/onboarding/accountant/next", nil)
	var state struct {
		Stage int `json:"stage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, 1, state.Stage)
}

func TestVerificationSessionDedupe(t *testing.T) {
	pc, gw := newPortal(t)

	rec := pc.do(http.MethodGet, "/onboarding/verification/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "pk_test_123")

	rec = pc.do(http.MethodPost, "/onboarding/verification/session",
		map[string]any{"userId": "user-1", "email": "jane@example.com", "role": "client"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "vs_secret_123")
	require.Equal(t, 1, gw.sessionCalls)
}
