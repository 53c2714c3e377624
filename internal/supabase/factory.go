package supabase

import (
	"net/http"

	"github.com/supabridge/auth-gateway/internal/config"
)

// ClientFactory builds per-request clients that share one HTTP
// transport. Constructed once at process start and injected into the
// server, so handlers never reach for globals.
type ClientFactory struct {
	httpClient *http.Client
}

// NewClientFactory creates a factory with a shared transport.
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		httpClient: &http.Client{
			Timeout: config.DefaultBackendTimeout,
		},
	}
}

// Client returns a GoTrue client bound to the given project and key.
func (f *ClientFactory) Client(baseURL, apiKey string) AuthAPI {
	return NewClient(baseURL, apiKey, WithHTTPClient(f.httpClient))
}
