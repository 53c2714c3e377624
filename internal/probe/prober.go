// Package probe answers "does an account exist for this email?".
//
// GoTrue exposes no direct existence query at the anonymous capability
// level, so the check is indirect: attempt a signup with a throwaway
// password and classify the outcome. For a pre-existing account GoTrue
// either reports an "already registered" error or returns an
// idempotent no-op user with empty metadata and no identities.
//
// This is a best-effort heuristic, not a guarantee: it leans on
// undocumented idempotent-signup behavior, and every call performs a
// real signup attempt against the backend. Callers must not invoke it
// more than once per logical operation. The interface is deliberately
// narrow so a direct query can replace the heuristic without touching
// callers if the backend ever grows one.
package probe

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/supabridge/auth-gateway/internal/supabase"
)

// Prober checks account existence for an identifier.
type Prober interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// SignupProber implements Prober via the idempotent-signup heuristic.
type SignupProber struct {
	api supabase.AuthAPI
}

// New creates a prober backed by the given auth API.
func New(api supabase.AuthAPI) *SignupProber {
	return &SignupProber{api: api}
}

// Exists reports whether an account exists for email. The error return
// is reserved for transport failures; backend-reported signup errors
// are part of the decision table, not failures.
func (p *SignupProber) Exists(ctx context.Context, email string) (bool, error) {
	// The throwaway password must satisfy typical password policies so
	// a rejection can only mean something about the account, not about
	// the password. It is never logged and never returned.
	password, err := randomPassword()
	if err != nil {
		return false, fmt.Errorf("generating probe password: %w", err)
	}

	res, err := p.api.SignUp(ctx, supabase.SignUpParams{Email: email, Password: password})
	if err != nil {
		if apiErr, ok := supabase.AsAPIError(err); ok {
			msg := apiErr.Message
			return strings.Contains(msg, "already registered") ||
				strings.Contains(msg, "already exists"), nil
		}
		return false, err
	}

	// Successful response: a genuinely new unverified account comes
	// back with metadata or an identity list. The idempotent no-op
	// response for an existing account has neither.
	user := gjson.GetBytes(res.Raw, "user")
	if !user.Exists() {
		user = gjson.ParseBytes(res.Raw)
	}

	hasMetadata := len(user.Get("user_metadata").Map()) > 0
	hasIdentities := len(user.Get("identities").Array()) > 0
	return !hasMetadata && !hasIdentities, nil
}

// passwordLen is comfortably above common minimum-length policies.
const passwordLen = 24

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*"
)

// randomPassword generates a policy-conforming secret: at least one
// uppercase letter, one digit and one symbol, the rest drawn from the
// full alphabet.
func randomPassword() (string, error) {
	all := lowerChars + upperChars + digitChars + symbolChars

	buf := make([]byte, passwordLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = all[int(b)%len(all)]
	}

	// Pin one character from each required class at fixed positions so
	// the policy guarantee never depends on chance.
	classes := []string{upperChars, digitChars, symbolChars}
	idx := make([]byte, len(classes))
	if _, err := rand.Read(idx); err != nil {
		return "", err
	}
	for i, class := range classes {
		buf[i] = class[int(idx[i])%len(class)]
	}

	return string(buf), nil
}
