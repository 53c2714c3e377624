// Package supabase provides a client for the Supabase auth (GoTrue) REST API.
//
// FILES:
//   - client.go: API client and HTTP helpers
//   - types.go:  Request/response types
//   - errors.go: Backend error extraction
//
// The gateway owns no auth state; every operation here is a forwarded
// call against a remote Supabase project identified by base URL + key.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/supabridge/auth-gateway/internal/config"
)

// authPath is the GoTrue mount point under a Supabase project URL.
const authPath = "/auth/v1"

// AuthAPI is the narrow surface the gateway needs from Supabase.
// Handlers and the existence prober depend on this interface so tests
// can substitute a mock backend.
type AuthAPI interface {
	SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error)
	VerifyOTP(ctx context.Context, email, token, otpType string) (*VerifyResult, error)
	SendOTP(ctx context.Context, email string, createUser bool) (json.RawMessage, error)
	SignInWithPassword(ctx context.Context, email, password string) (json.RawMessage, error)
	OAuthAuthorizeURL(provider, redirectTo string) string
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) (json.RawMessage, error)
	GetUser(ctx context.Context, accessToken string) (json.RawMessage, error)
	UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error
	AdminGetUserByEmail(ctx context.Context, email string) (json.RawMessage, error)
	Health(ctx context.Context) error
}

// Client talks to one Supabase project with one key. Per-request
// override headers produce a fresh Client; construction is cheap and
// the underlying http.Client is shared.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ AuthAPI = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. Used by the factory so all
// per-request clients share one transport.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient creates a GoTrue client for the given project URL and key.
// The key is sent both as the apikey header and as the default bearer
// token, matching supabase-js behavior.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: config.DefaultBackendTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the project URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SignUp attempts to register an email/password account. For projects
// with email confirmation enabled the response is a bare user object;
// with autoconfirm it is a session with the user embedded. Both raw
// and decoded forms are returned.
func (c *Client) SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error) {
	body, err := c.do(ctx, http.MethodPost, authPath+"/signup", c.apiKey, params)
	if err != nil {
		return nil, err
	}

	res := &SignUpResult{Raw: body}
	var sess Session
	if err := json.Unmarshal(body, &sess); err == nil && sess.AccessToken != "" {
		res.Session = &sess
		res.User = sess.User
		return res, nil
	}
	var user User
	if err := json.Unmarshal(body, &user); err == nil && user.ID != "" {
		res.User = &user
	}
	return res, nil
}

// VerifyOTP confirms an emailed one-time code. On success GoTrue
// issues a session for the verified user.
func (c *Client) VerifyOTP(ctx context.Context, email, token, otpType string) (*VerifyResult, error) {
	payload := struct {
		Email string `json:"email"`
		Token string `json:"token"`
		Type  string `json:"type"`
	}{Email: email, Token: token, Type: otpType}

	body, err := c.do(ctx, http.MethodPost, authPath+"/verify", c.apiKey, payload)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{Raw: body}
	var sess Session
	if err := json.Unmarshal(body, &sess); err == nil && sess.AccessToken != "" {
		res.Session = &sess
		res.User = sess.User
	}
	return res, nil
}

// SendOTP triggers an OTP email. createUser=false makes this a pure
// resend: unknown addresses get an error instead of a fresh account.
func (c *Client) SendOTP(ctx context.Context, email string, createUser bool) (json.RawMessage, error) {
	payload := struct {
		Email      string `json:"email"`
		CreateUser bool   `json:"create_user"`
	}{Email: email, CreateUser: createUser}

	return c.do(ctx, http.MethodPost, authPath+"/otp", c.apiKey, payload)
}

// SignInWithPassword exchanges credentials for a session. The raw
// session JSON is returned for passthrough.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (json.RawMessage, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	return c.do(ctx, http.MethodPost, authPath+"/token?grant_type=password", c.apiKey, payload)
}

// OAuthAuthorizeURL builds the browser redirect URL for a federated
// login. No network call: GoTrue's /authorize endpoint does the actual
// provider handshake when the browser follows the URL.
func (c *Client) OAuthAuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + authPath + "/authorize?" + q.Encode()
}

// ResetPasswordForEmail triggers a recovery email containing an OTP.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) (json.RawMessage, error) {
	payload := struct {
		Email      string `json:"email"`
		RedirectTo string `json:"redirect_to,omitempty"`
	}{Email: email, RedirectTo: redirectTo}

	return c.do(ctx, http.MethodPost, authPath+"/recover", c.apiKey, payload)
}

// GetUser fetches the user owning the given access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, authPath+"/user", accessToken, nil)
}

// UpdateUserPassword sets a new password for the user owning the
// access token. Used by the recovery flow after OTP verification.
func (c *Client) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	payload := struct {
		Password string `json:"password"`
	}{Password: newPassword}

	_, err := c.do(ctx, http.MethodPut, authPath+"/user", accessToken, payload)
	return err
}

// AdminGetUserByEmail looks up users by email through the admin API.
// The client must have been constructed with the service role key;
// anon keys get a backend permission error.
func (c *Client) AdminGetUserByEmail(ctx context.Context, email string) (json.RawMessage, error) {
	path := authPath + "/admin/users?email=" + url.QueryEscape(email)
	return c.do(ctx, http.MethodGet, path, c.apiKey, nil)
}

// Health probes the GoTrue health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, authPath+"/health", c.apiKey, nil)
	return err
}

// do performs one backend call. token goes into the Authorization
// header; the project key always goes into apikey. A non-2xx status
// with a parseable body becomes an *APIError carrying the backend's
// message; anything else is a transport error.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no backend URL configured")
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "supabridge-gateway/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}
