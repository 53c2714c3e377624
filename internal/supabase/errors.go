package supabase

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// APIError is an error reported by the GoTrue backend itself, as
// opposed to a transport failure. Message is the backend's own text,
// passed through to clients verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// AsAPIError unwraps err to a backend-reported error, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// newAPIError extracts the human-readable message from a GoTrue error
// body. GoTrue is inconsistent across versions: errors arrive as
// {"msg": ...}, {"message": ...}, {"error_description": ...} or
// {"error": ...}.
func newAPIError(statusCode int, body []byte) *APIError {
	for _, field := range []string{"msg", "message", "error_description", "error"} {
		if v := gjson.GetBytes(body, field); v.Exists() && v.String() != "" {
			return &APIError{StatusCode: statusCode, Message: v.String()}
		}
	}
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
