package probe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabridge/auth-gateway/internal/supabase"
)

// stubAPI implements just enough of AuthAPI for the prober.
type stubAPI struct {
	supabase.AuthAPI

	signUpCalls  int
	lastParams   supabase.SignUpParams
	signUpResult *supabase.SignUpResult
	signUpErr    error
}

func (s *stubAPI) SignUp(_ context.Context, params supabase.SignUpParams) (*supabase.SignUpResult, error) {
	s.signUpCalls++
	s.lastParams = params
	return s.signUpResult, s.signUpErr
}

func TestExistsDecisionTable(t *testing.T) {
	tests := []struct {
		name   string
		result *supabase.SignUpResult
		err    error
		want   bool
	}{
		{
			name: "already registered error means exists",
			err:  &supabase.APIError{StatusCode: 422, Message: "User already registered"},
			want: true,
		},
		{
			name: "already exists error means exists",
			err:  &supabase.APIError{StatusCode: 422, Message: "A user with this email address has already exists"},
			want: true,
		},
		{
			name: "other backend error means not exists",
			err:  &supabase.APIError{StatusCode: 400, Message: "invalid email"},
			want: false,
		},
		{
			name: "new account with metadata means not exists",
			result: &supabase.SignUpResult{
				Raw: json.RawMessage(`{"id":"u1","user_metadata":{"name":"x"},"identities":[]}`),
			},
			want: false,
		},
		{
			name: "new account with identities means not exists",
			result: &supabase.SignUpResult{
				Raw: json.RawMessage(`{"id":"u1","user_metadata":{},"identities":[{"id":"i1"}]}`),
			},
			want: false,
		},
		{
			name: "empty metadata and identities means exists",
			result: &supabase.SignUpResult{
				Raw: json.RawMessage(`{"id":"u1","user_metadata":{},"identities":[]}`),
			},
			want: true,
		},
		{
			name: "wrapped user object is unwrapped",
			result: &supabase.SignUpResult{
				Raw: json.RawMessage(`{"user":{"id":"u1","user_metadata":{},"identities":[]},"session":null}`),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{signUpResult: tt.result, signUpErr: tt.err}
			got, err := New(api).Exists(context.Background(), "someone@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, api.signUpCalls, "exactly one signup attempt per probe")
		})
	}
}

func TestExistsTransportError(t *testing.T) {
	api := &stubAPI{signUpErr: errors.New("dial tcp: connection refused")}
	_, err := New(api).Exists(context.Background(), "someone@example.com")
	require.Error(t, err)
}

func TestExistsUsesPolicyConformingPassword(t *testing.T) {
	api := &stubAPI{
		signUpErr: &supabase.APIError{StatusCode: 422, Message: "User already registered"},
	}
	_, err := New(api).Exists(context.Background(), "someone@example.com")
	require.NoError(t, err)

	pw := api.lastParams.Password
	require.GreaterOrEqual(t, len(pw), 12)

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolChars, r):
			hasSymbol = true
		}
	}
	assert.True(t, hasUpper, "password needs an uppercase letter")
	assert.True(t, hasDigit, "password needs a digit")
	assert.True(t, hasSymbol, "password needs a symbol")
}

func TestRandomPasswordNotReused(t *testing.T) {
	a, err := randomPassword()
	require.NoError(t, err)
	b, err := randomPassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
