package server

import (
	"encoding/json"
	"net/http"

	"github.com/supabridge/auth-gateway/internal/supabase"
)

// Envelope convention: a response carries either a success payload
// (usually under status:"ok") or a single error string, never both,
// and the HTTP status code always agrees with the body.

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondOK writes a 200 {status:"ok", ...} envelope.
func respondOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"status": "ok"}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// respondError writes an {error: msg} envelope with a 4xx/5xx code.
func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondRaw passes backend JSON through unchanged.
func respondRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// respondBackendError maps a backend call failure onto the envelope:
// backend-reported errors become 400 with the backend's message
// verbatim, transport failures become 500 with the raw error text.
func respondBackendError(w http.ResponseWriter, err error) {
	if apiErr, ok := supabase.AsAPIError(err); ok {
		respondError(w, http.StatusBadRequest, apiErr.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
