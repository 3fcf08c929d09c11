package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/meridian-advisory/onboard/internal/forms"
)

const defaultTimeout = 30 * time.Second

// Client wraps the core API. The base URL comes from configuration; no
// other tunables exist.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a core API client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var stepEndpoints = map[int]string{
	1: "/clients/save-personal-info",
	2: "/clients/save-address-residency",
	3: "/clients/save-family-details",
	4: "/clients/save-income-stream-info",
	6: "/clients/save-business-entities",
	7: "/clients/save-agreements",
}

// SaveStepData persists one wizard step. Step 5 has no endpoint: business
// entities persist individually through SaveBusinessEntity.
func (c *Client) SaveStepData(ctx context.Context, f *forms.ClientFormData, step int) StepResult {
	path, ok := stepEndpoints[step]
	if !ok {
		return StepResult{Status: Fail(fmt.Sprintf("no save endpoint for step %d", step))}
	}

	var payload any
	switch step {
	case 1:
		payload = buildPersonalInfo(f)
	case 2:
		payload = buildAddressResidency(f)
	case 3:
		payload = buildFamilyDetails(f)
	case 4:
		payload = buildIncomeStream(f)
	case 6:
		payload = buildBusinessEntitiesStep(f)
	case 7:
		payload = buildAgreements(f)
	}

	var body struct {
		ClientID int64 `json:"clientId"`
		ID       int64 `json:"id"`
	}
	status := c.do(ctx, http.MethodPost, path, payload, &body)
	res := StepResult{Status: status}
	if status.Success {
		res.ClientID = body.ClientID
		if res.ClientID == 0 {
			res.ClientID = body.ID
		}
	}
	return res
}

// SaveBusinessEntity upserts one business entity. The payload carries the
// entity's existing id (null on first save); the response carries the
// server-assigned id on create.
func (c *Client) SaveBusinessEntity(ctx context.Context, typ forms.EntityType, entity any, clientID int64) EntityResult {
	var payload any
	switch e := entity.(type) {
	case *forms.SoleTrader:
		payload = buildSoleTrader(e, clientID)
	case *forms.Company:
		payload = buildCompany(e, clientID)
	case *forms.Trust:
		payload = buildTrust(e, clientID)
	case *forms.SMSF:
		payload = buildSMSF(e, clientID)
	case *forms.Partnership:
		payload = buildPartnership(e, clientID)
	case *forms.InvestmentProperty:
		payload = buildInvestmentProperty(e, clientID)
	default:
		return EntityResult{Status: Fail(fmt.Sprintf("unsupported entity %T", entity))}
	}

	var body struct {
		ID int64 `json:"id"`
	}
	status := c.do(ctx, http.MethodPost, "/clients/business-entities/"+string(typ), payload, &body)
	res := EntityResult{Status: status}
	if status.Success {
		res.ID = body.ID
	}
	return res
}

// DeleteBusinessEntity removes one saved entity. The sole trader is a
// singleton, so its delete path omits the id segment.
func (c *Client) DeleteBusinessEntity(ctx context.Context, typ forms.EntityType, id int64) Status {
	path := fmt.Sprintf("/clients/business-entities/%s/%d", typ, id)
	if typ == forms.EntitySoleTrader {
		path = "/clients/business-entities/" + string(typ)
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RegisterClient submits the full aggregate for final registration.
func (c *Client) RegisterClient(ctx context.Context, f *forms.ClientFormData) Status {
	return c.do(ctx, http.MethodPost, "/clients/register", buildRegisterClient(f), nil)
}

// GetClientByID fetches a previously saved client so an in-progress
// registration can resume.
func (c *Client) GetClientByID(ctx context.Context, id int64) ClientResult {
	var client forms.ClientFormData
	status := c.do(ctx, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, &client)
	if !status.Success {
		return ClientResult{Status: status}
	}
	if client.ClientID == 0 {
		client.ClientID = id
	}
	return ClientResult{Status: status, Client: &client}
}

// RegisterAccountant submits the buffered accountant registration in one
// shot. The confirm-password field never leaves the portal.
func (c *Client) RegisterAccountant(ctx context.Context, f *forms.AccountantFormData) Status {
	return c.do(ctx, http.MethodPost, "/accountants/register", buildAccountant(f), nil)
}

// ProvisionClient creates a minimal client record for an
// accountant-invited user; the core API generates a password and sends the
// invitation email.
func (c *Client) ProvisionClient(ctx context.Context, firstName, lastName, email string) Status {
	payload := provisionDTO{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
	}
	return c.do(ctx, http.MethodPost, "/clients/provision", payload, nil)
}

// CreateVerificationSession opens an identity-verification session and
// returns the client secret the embedded widget consumes.
func (c *Client) CreateVerificationSession(ctx context.Context, userID, email, role string) SessionResult {
	payload := verificationSessionDTO{UserID: userID, Email: email, Role: role}
	var body struct {
		ClientSecret string `json:"clientSecret"`
	}
	status := c.do(ctx, http.MethodPost, "/verification/sessions", payload, &body)
	return SessionResult{Status: status, ClientSecret: body.ClientSecret}
}

// do performs one exchange and normalizes every failure path to a Status.
// Transport errors, non-2xx responses and undecodable bodies all resolve
// here; nothing propagates as a Go error.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) Status {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			c.logger.Error("encode payload", slog.String("path", path), slog.Any("error", err))
			return Fail("Could not prepare the request. Please try again.")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return Fail("Could not prepare the request. Please try again.")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("core api unreachable", slog.String("path", path), slog.Any("error", err))
		return Fail("Unable to reach the server. Please try again.")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail("Unable to read the server response. Please try again.")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parseErrorBody(raw, fmt.Sprintf("HTTP error %d", resp.StatusCode))
		c.logger.Warn("core api error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg))
		return Fail(msg)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			c.logger.Error("decode response", slog.String("path", path), slog.Any("error", err))
			return Fail("Received an unexpected response from the server.")
		}
	}
	return OK
}

// parseErrorBody extracts a human-readable message from a core API error
// response. Bodies may carry an embedded-errors list or a flat message or
// error field; anything else falls back to the generic HTTP message.
func parseErrorBody(raw []byte, fallback string) string {
	var body struct {
		Embedded struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"_embedded"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	if len(body.Embedded.Errors) > 0 && body.Embedded.Errors[0].Message != "" {
		return userFacingMessage(body.Embedded.Errors[0].Message)
	}
	if body.Message != "" {
		return body.Message
	}
	if body.Error != "" {
		return body.Error
	}
	return fallback
}

// userFacingMessage strips the machine prefix from a colon-delimited
// embedded error, keeping the portion meant for the user.
// "field tooLong: email must not exceed 255 characters" becomes
// "email must not exceed 255 characters".
func userFacingMessage(msg string) string {
	parts := strings.SplitN(msg, ":", 3)
	switch len(parts) {
	case 3:
		return strings.TrimSpace(parts[2])
	case 2:
		return strings.TrimSpace(parts[1])
	default:
		return strings.TrimSpace(msg)
	}
}
