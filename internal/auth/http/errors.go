package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const internalErrorMessage = "Internal server error"

// errorStatuses maps service errors to response codes. The response body is
// always the sentinel's own message.
var errorStatuses = []struct {
	err  error
	code int
}{
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrInvalidResetToken, http.StatusBadRequest},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrAccountDeactivated, http.StatusUnauthorized},
	{service.ErrInvalidAccountConfig, http.StatusUnauthorized},
	{service.ErrInvalidRefresh, http.StatusUnauthorized},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrMFARequired, http.StatusUnauthorized},
	{service.ErrInvalidMFACode, http.StatusUnauthorized},

	{service.ErrInsufficientPermissions, http.StatusForbidden},
	{service.ErrInvalidBootstrapKey, http.StatusForbidden},

	{service.ErrNotFound, http.StatusNotFound},

	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrHubNameTaken, http.StatusConflict},
	{service.ErrAlreadyMember, http.StatusConflict},
	{service.ErrSuperAdminExists, http.StatusConflict},
	{service.ErrResetTokenUsed, http.StatusConflict},
	{service.ErrMFAAlreadyEnabled, http.StatusConflict},
	{service.ErrMFANotEnrolled, http.StatusConflict},
	{service.ErrMFANotEnabled, http.StatusConflict},
}

// errorStatus returns the status code and user-safe message for err.
// Unknown errors are reported as a 500 with a generic message.
func errorStatus(err error) (int, string) {
	var locked *service.LockedError
	if errors.As(err, &locked) {
		return http.StatusUnauthorized, locked.Error()
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.code, e.err.Error()
		}
	}
	return http.StatusInternalServerError, internalErrorMessage
}

// writeError writes the {"error": ...} envelope for err. Infrastructure
// failures are logged with their detail, which never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	httpx.WriteError(w, code, msg)
}

// writeBadRequest reports an undecodable body.
func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Info("invalid request body", "err", err)
	httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
}
