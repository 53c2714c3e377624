// Package server wires the HTTP surface of the auth gateway.
//
// DESIGN: Request flow:
//   - middleware:       request id + logging, CORS, panic recovery
//   - credential step:  creds.Resolve picks effective backend per request
//   - handler:          validates input, calls exactly one backend
//     operation (two for recovery completion), maps
//     the outcome onto the response envelope
//
// Handlers hold no state; everything they need is injected at
// construction so tests can substitute the backend wholesale.
package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/supabridge/auth-gateway/internal/config"
	"github.com/supabridge/auth-gateway/internal/creds"
	"github.com/supabridge/auth-gateway/internal/probe"
	"github.com/supabridge/auth-gateway/internal/supabase"
)

// ClientProvider builds a backend client for resolved credentials.
// *supabase.ClientFactory is the production implementation.
type ClientProvider interface {
	Client(baseURL, apiKey string) supabase.AuthAPI
}

// Server is the gateway HTTP handler.
type Server struct {
	cfg       *config.Config
	defaults  creds.Credentials
	clients   ClientProvider
	newProber func(supabase.AuthAPI) probe.Prober
	router    chi.Router
}

// Option configures the Server.
type Option func(*Server)

// WithClientProvider replaces the backend client factory. Tests use
// this to route all backend calls to a mock.
func WithClientProvider(p ClientProvider) Option {
	return func(s *Server) {
		s.clients = p
	}
}

// WithProberFunc replaces the existence prober constructor.
func WithProberFunc(fn func(supabase.AuthAPI) probe.Prober) Option {
	return func(s *Server) {
		s.newProber = fn
	}
}

// New creates the gateway server.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		defaults: creds.Credentials{
			BaseURL:    cfg.SupabaseURL,
			AnonKey:    cfg.SupabaseAnonKey,
			ServiceKey: cfg.SupabaseServiceKey,
		},
		clients: supabase.NewClientFactory(),
		newProber: func(api supabase.AuthAPI) probe.Prober {
			return probe.New(api)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler, so the server can run under a
// long-lived listener or be mounted in a serverless host.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(corsMiddleware(s.cfg.AllowedOrigins()))
	r.Use(recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/config", s.handleConfig)
	r.Get("/supabase-status", s.handleSupabaseStatus)

	r.Post("/signUp", s.handleSignUp)
	r.Post("/signUpVerify", s.handleSignUpVerify)
	r.Post("/resendOtp", s.handleResendOTP)
	r.Post("/signIn", s.handleSignIn)
	r.Get("/gglSignIn", s.handleGoogleSignIn)
	r.Post("/forgtPss", s.handleForgotPassword)
	r.Post("/resetPssVerify", s.handleResetPasswordVerify)
	r.Get("/getUsr", s.handleGetUser)
	r.Post("/usrExst", s.handleUserExists)

	// Frontend assets, if present. Missing directory just means no
	// static surface, not an error.
	if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
		fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}

// resolve derives the effective credentials for a request.
func (s *Server) resolve(r *http.Request) creds.Credentials {
	return creds.Resolve(r.Header, s.defaults)
}

// anonClient returns a client bound to the request's effective
// anonymous credentials.
func (s *Server) anonClient(c creds.Credentials) supabase.AuthAPI {
	return s.clients.Client(c.BaseURL, c.AnonKey)
}

// adminClient returns a client bound to the privileged key. Callers
// must have checked c.HasServiceKey first.
func (s *Server) adminClient(c creds.Credentials) supabase.AuthAPI {
	return s.clients.Client(c.BaseURL, c.ServiceKey)
}
