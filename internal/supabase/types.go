package supabase

import "encoding/json"

// User is a GoTrue user record. Only the fields the gateway inspects
// are typed; everything else rides along in handler passthroughs via
// the raw response body.
type User struct {
	ID           string            `json:"id"`
	Aud          string            `json:"aud,omitempty"`
	Role         string            `json:"role,omitempty"`
	Email        string            `json:"email"`
	UserMetadata map[string]any    `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any    `json:"app_metadata,omitempty"`
	Identities   []json.RawMessage `json:"identities,omitempty"`
	CreatedAt    string            `json:"created_at,omitempty"`
	ConfirmedAt  string            `json:"confirmed_at,omitempty"`
}

// Session is a GoTrue access grant, returned by password sign-in and
// OTP verification.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// SignUpParams are the inputs to a registration attempt. Metadata is
// forwarded verbatim as the user's user_metadata.
type SignUpParams struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"data,omitempty"`
}

// SignUpResult carries both the decoded and the raw signup response.
// Raw is kept because the existence heuristic inspects the response
// shape directly, and because handlers pass backend JSON through
// without reshaping.
type SignUpResult struct {
	Raw     json.RawMessage
	User    *User
	Session *Session
}

// VerifyResult is the outcome of an OTP verification: a session with
// the user embedded.
type VerifyResult struct {
	Raw     json.RawMessage
	Session *Session
	User    *User
}

// OTP types accepted by the verify endpoint.
const (
	OTPTypeSignup   = "signup"
	OTPTypeEmail    = "email"
	OTPTypeRecovery = "recovery"
)
