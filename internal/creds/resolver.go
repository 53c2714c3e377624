// Package creds derives per-request backend credentials.
//
// Every request may override the process-wide Supabase project via
// custom headers, which lets one gateway deployment front multiple
// projects. Resolution is a pure value derivation: no validation, no
// network, no error. Absence of a value only matters at the point a
// handler needs it.
package creds

import (
	"net/http"
	"strings"
)

// Override headers accepted on every route.
const (
	HeaderURL        = "x-supabase-url"
	HeaderAnonKey    = "x-supabase-anon-key"
	HeaderServiceKey = "x-supabase-service-key"
)

// Credentials is the effective backend identity for one request.
// Ephemeral: derived per request, never persisted.
type Credentials struct {
	// BaseURL is the Supabase project URL, never with a trailing slash
	// so sub-paths can be appended directly.
	BaseURL string

	// AnonKey is the public key used for ordinary client operations.
	AnonKey string

	// ServiceKey is the optional privileged key. Empty disables admin
	// operations; handlers surface that as a permission error.
	ServiceKey string
}

// Resolve picks the effective credentials for a request: for each
// field independently, a present non-empty override header wins over
// the process default.
func Resolve(h http.Header, defaults Credentials) Credentials {
	out := Credentials{
		BaseURL:    pick(h.Get(HeaderURL), defaults.BaseURL),
		AnonKey:    pick(h.Get(HeaderAnonKey), defaults.AnonKey),
		ServiceKey: pick(h.Get(HeaderServiceKey), defaults.ServiceKey),
	}
	out.BaseURL = strings.TrimRight(out.BaseURL, "/")
	return out
}

func pick(override, fallback string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return fallback
}

// HasAnonConfig reports whether ordinary client operations can be
// performed with these credentials.
func (c Credentials) HasAnonConfig() bool {
	return c.BaseURL != "" && c.AnonKey != ""
}

// HasServiceKey reports whether privileged operations are available.
func (c Credentials) HasServiceKey() bool {
	return c.ServiceKey != ""
}
