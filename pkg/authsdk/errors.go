package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the auth service.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("auth: %d %s", e.StatusCode, e.Message)
}

// HasStatus reports whether err is an *APIError with the given status code.
func HasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool { return HasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports whether the caller lacked permission.
func IsForbidden(err error) bool { return HasStatus(err, http.StatusForbidden) }

// IsConflict reports whether the request clashed with existing state.
func IsConflict(err error) bool { return HasStatus(err, http.StatusConflict) }

// parseErrorResponse turns an error body into an *APIError. Bodies that are
// not in the {"error": ...} envelope fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
}
