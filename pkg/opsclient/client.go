// Package opsclient is the Go client for the Kavalife ERP API. It holds
// the session cookie issued at login and mirrors the server's endpoint
// surface: reference data, VIR, GRN, QA/QC and the process logs.
package opsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"kavalife-erp/internal/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the session cookie is missing or expired
var ErrUnauthorized = errors.New("opsclient: not authenticated")

// ValidationError reports a payload rejected before any network call
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("opsclient: invalid request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// apiError is the {"error": "..."} body the server returns on failure
type apiError struct {
	Error string `json:"error"`
}

// Client talks to the ERP backend. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        *zap.Logger
	token      string
}

// Option customizes the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement
// should carry a cookie jar or authenticated calls will fail.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithSessionToken authenticates with a bearer token instead of the
// cookie jar. Used by callers that persist a session across processes.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given base URL. The client keeps the
// session cookie from Login in an in-memory jar.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		validate: validator.New(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues a request and decodes the response body into out (when out is
// non-nil). Request bodies are JSON-encoded. A 401 maps to ErrUnauthorized;
// other error statuses surface the server's error message.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("Request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("opsclient: %s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("opsclient: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// checkPayload runs struct validation before any network traffic
func (c *Client) checkPayload(payload interface{}) error {
	if err := c.validate.Struct(payload); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// SessionToken returns the session cookie value issued at login, or ""
// when no session exists. Callers can persist it and reconnect with
// WithSessionToken.
func (c *Client) SessionToken() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}

// Login authenticates and stores the session cookie for later calls
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	creds := Credentials{Username: username, Password: password}
	if err := c.checkPayload(creds); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Logout ends the session and drops the cookie server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// CheckUser returns the current session user, or ErrUnauthorized
func (c *Client) CheckUser(ctx context.Context) (*model.User, error) {
	var resp struct {
		Data model.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/checkUser", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchAllVendors returns the full vendor reference list
func (c *Client) FetchAllVendors(ctx context.Context) ([]model.Vendor, error) {
	var resp struct {
		Data []model.Vendor `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/vendor/allVendors", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchAllProducts returns the full product reference list
func (c *Client) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	var resp struct {
		Data []model.Product `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/product/allProducts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchAllUsers returns the user directory
func (c *Client) FetchAllUsers(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Data []model.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/allUsers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchAllVIRs returns every inspection report
func (c *Client) FetchAllVIRs(ctx context.Context) ([]model.VIR, error) {
	var resp struct {
		Data []model.VIR `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/vir/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetVIR returns one inspection report by its VIR number
func (c *Client) GetVIR(ctx context.Context, virNumber string) (*model.VIR, error) {
	var resp struct {
		Data model.VIR `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/vir/"+virNumber, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateVIR opens a new inspection report
func (c *Client) CreateVIR(ctx context.Context, req VIRCreate) (*model.VIR, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.VIR `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/vir/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// VerifyVIR signs off an inspection report. Completed reports reject
// further verification.
func (c *Client) VerifyVIR(ctx context.Context, virNumber string, req VIRVerify) error {
	return c.do(ctx, http.MethodPatch, "/vir/verify/"+virNumber, req, nil)
}

// FetchGRNs returns every goods received note with its derived QA/QC state
func (c *Client) FetchGRNs(ctx context.Context) ([]model.GRN, error) {
	var resp struct {
		Data []model.GRN `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/grn/view", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateGRN records a goods receipt against a completed VIR. The payload
// is validated locally first; an incomplete form never reaches the wire.
func (c *Client) CreateGRN(ctx context.Context, req GRNCreate) (*model.GRN, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.GRN `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/grn/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateGRN applies a partial update to an open receipt
func (c *Client) UpdateGRN(ctx context.Context, id uint, req GRNUpdate) (*model.GRN, error) {
	var resp struct {
		Data model.GRN `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/grn/update/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchQAQC returns the QA/QC entry for a process reference, or nil when
// none exists yet. The nil result drives the create-vs-view decision.
func (c *Client) FetchQAQC(ctx context.Context, processType, processRef string) (*model.QAQC, error) {
	q := url.Values{}
	q.Set("processType", processType)
	q.Set("processRef", processRef)
	path := "/qaqc/view?" + q.Encode()

	var entry *model.QAQC
	if err := c.do(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateQAQC records a lab sign-off. At most one entry exists per GRN.
func (c *Client) CreateQAQC(ctx context.Context, req QAQCCreate) (*model.QAQC, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var entry model.QAQC
	if err := c.do(ctx, http.MethodPost, "/qaqc/create", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FetchExtractions returns every extraction log
func (c *Client) FetchExtractions(ctx context.Context) ([]model.ExtractionLog, error) {
	var resp struct {
		Data []model.ExtractionLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/process/extraction", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateExtraction opens an extraction log
func (c *Client) CreateExtraction(ctx context.Context, req ExtractionCreate) (*model.ExtractionLog, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.ExtractionLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/process/extraction", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CompleteExtraction closes an extraction log
func (c *Client) CompleteExtraction(ctx context.Context, id uint) (*model.ExtractionLog, error) {
	var resp struct {
		Data model.ExtractionLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/process/extraction/%d/complete", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchStrippings returns every stripping log
func (c *Client) FetchStrippings(ctx context.Context) ([]model.StrippingLog, error) {
	var resp struct {
		Data []model.StrippingLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/process/stripping", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateStripping opens a stripping log
func (c *Client) CreateStripping(ctx context.Context, req StrippingCreate) (*model.StrippingLog, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.StrippingLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/process/stripping", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CompleteStripping closes a stripping log
func (c *Client) CompleteStripping(ctx context.Context, id uint) (*model.StrippingLog, error) {
	var resp struct {
		Data model.StrippingLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/process/stripping/%d/complete", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchPurifications returns every purification log
func (c *Client) FetchPurifications(ctx context.Context) ([]model.PurificationLog, error) {
	var resp struct {
		Data []model.PurificationLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/process/purification", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePurification opens a purification log
func (c *Client) CreatePurification(ctx context.Context, req PurificationCreate) (*model.PurificationLog, error) {
	if err := c.checkPayload(req); err != nil {
		return nil, err
	}

	var resp struct {
		Data model.PurificationLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/process/purification", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CompletePurification closes a purification log
func (c *Client) CompletePurification(ctx context.Context, id uint) (*model.PurificationLog, error) {
	var resp struct {
		Data model.PurificationLog `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/process/purification/%d/complete", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
