package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supabridge/auth-gateway/internal/config"
	"github.com/supabridge/auth-gateway/internal/supabase"
)

// decodeBody parses a JSON request body into dst. An empty body is
// treated as an empty object so field validation produces the usual
// "required" errors instead of a parse error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, map[string]any{
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConfig exposes the externally visible base URL so frontends
// can discover where the gateway is mounted.
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"baseUrl":    s.cfg.PublicBaseURL,
		"hasBaseUrl": s.cfg.PublicBaseURL != "",
	})
}

// handleSupabaseStatus checks connectivity against the resolved
// backend. Override headers are honored, so this doubles as a way to
// validate a candidate project configuration.
func (s *Server) handleSupabaseStatus(w http.ResponseWriter, r *http.Request) {
	c := s.resolve(r)
	details := map[string]any{
		"url":           c.BaseURL,
		"hasAnonKey":    c.AnonKey != "",
		"hasServiceKey": c.HasServiceKey(),
	}

	if !c.HasAnonConfig() {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":    "error",
			"connected": false,
			"message":   "Supabase is not configured",
			"details":   details,
		})
		return
	}

	if err := s.anonClient(c).Health(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if _, ok := supabase.AsAPIError(err); ok {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{
			"status":    "error",
			"connected": false,
			"message":   "Supabase is unreachable",
			"error":     err.Error(),
			"details":   details,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"connected": true,
		"message":   "Supabase is reachable",
		"details":   details,
	})
}

// handleSignUp registers a new email/password account. Metadata under
// "data" is forwarded verbatim.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password required")
		return
	}

	c := s.resolve(r)
	res, err := s.anonClient(c).SignUp(r.Context(), supabase.SignUpParams{
		Email:    req.Email,
		Password: req.Password,
		Metadata: req.Data,
	})
	if err != nil {
		respondBackendError(w, err)
		return
	}

	data := map[string]any{
		"user":    json.RawMessage(res.Raw),
		"session": nil,
	}
	if res.Session != nil {
		data["user"] = res.Session.User
		data["session"] = res.Session
	}
	respondOK(w, map[string]any{
		"message": "Signup successful. Please verify OTP sent to email.",
		"data":    data,
	})
}

// handleSignUpVerify confirms the signup OTP and returns the issued
// session.
func (s *Server) handleSignUpVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Token string `json:"token"`
		Type  string `json:"type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Token == "" {
		respondError(w, http.StatusBadRequest, "email and token (OTP) required")
		return
	}
	if req.Type == "" {
		req.Type = supabase.OTPTypeSignup
	}

	c := s.resolve(r)
	res, err := s.anonClient(c).VerifyOTP(r.Context(), req.Email, req.Token, req.Type)
	if err != nil {
		respondBackendError(w, err)
		return
	}

	respondOK(w, map[string]any{
		"message": "Email verified successfully",
		"session": res.Session,
		"user":    res.User,
	})
}

// handleResendOTP re-sends the confirmation email. create_user is
// always false so unknown addresses cannot mint accounts here.
func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email required")
		return
	}

	c := s.resolve(r)
	data, err := s.anonClient(c).SendOTP(r.Context(), req.Email, false)
	if err != nil {
		respondBackendError(w, err)
		return
	}

	respondOK(w, map[string]any{
		"message": "OTP resent successfully",
		"data":    json.RawMessage(data),
	})
}

// handleSignIn exchanges credentials for a session. The backend
// session JSON is returned as-is.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password required")
		return
	}

	c := s.resolve(r)
	data, err := s.anonClient(c).SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, data)
}

// handleGoogleSignIn returns the federated-login redirect URL for the
// browser to follow.
func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	redirectTo := r.URL.Query().Get("redirectTo")

	c := s.resolve(r)
	if c.BaseURL == "" {
		respondError(w, http.StatusBadRequest, "Supabase URL not configured")
		return
	}

	url := s.anonClient(c).OAuthAuthorizeURL("google", redirectTo)
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": "google",
		"url":      url,
	})
}

// handleForgotPassword starts the recovery flow. The existence probe
// runs first so unknown addresses fail fast instead of silently
// sending nothing; the recovery email is only requested for accounts
// that exist.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		RedirectTo string `json:"redirectTo"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email required")
		return
	}

	c := s.resolve(r)
	api := s.anonClient(c)

	exists, err := s.newProber(api).Exists(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !exists {
		respondError(w, http.StatusBadRequest, "User does not exist")
		return
	}

	data, err := api.ResetPasswordForEmail(r.Context(), req.Email, req.RedirectTo)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondOK(w, map[string]any{
		"data": json.RawMessage(data),
	})
}

// handleResetPasswordVerify completes recovery: verify the emailed OTP,
// then set the new password under the session it issued. If the verify
// succeeds but yields no session, the update is not attempted.
func (s *Server) handleResetPasswordVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "email, token (OTP from reset email), and newPassword required")
		return
	}

	c := s.resolve(r)
	api := s.anonClient(c)

	res, err := api.VerifyOTP(r.Context(), req.Email, req.Token, supabase.OTPTypeRecovery)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	if res.Session == nil || res.Session.AccessToken == "" {
		respondError(w, http.StatusBadRequest, "No session from OTP verification")
		return
	}

	if err := api.UpdateUserPassword(r.Context(), res.Session.AccessToken, req.NewPassword); err != nil {
		respondBackendError(w, err)
		return
	}

	respondOK(w, map[string]any{
		"message": "Password reset successfully",
		"session": res.Session,
		"user":    res.User,
	})
}

// handleGetUser looks up a user, in one of two mutually exclusive
// modes. A bearer token identifies its own user and is checked first.
// The email query mode is an admin operation and requires the
// privileged key regardless of whether an email was supplied.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	c := s.resolve(r)

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimPrefix(auth, "Bearer ")
		data, err := s.anonClient(c).GetUser(r.Context(), token)
		if err != nil {
			respondBackendError(w, err)
			return
		}
		respondRaw(w, http.StatusOK, data)
		return
	}

	if !c.HasServiceKey() {
		respondError(w, http.StatusForbidden, "Admin key missing")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "Bearer token or ?email required")
		return
	}

	data, err := s.adminClient(c).AdminGetUserByEmail(r.Context(), email)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, data)
}

// handleUserExists runs the existence heuristic. Note this performs a
// real signup attempt against the backend (see the probe package).
func (s *Server) handleUserExists(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email required")
		return
	}

	c := s.resolve(r)
	exists, err := s.newProber(s.anonClient(c)).Exists(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("existence check failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exists": exists,
		"data":   nil,
	})
}
