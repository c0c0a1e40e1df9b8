package http

import (
	"net/http"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
)

type PasswordResetHandler struct {
	Resets *service.PasswordResetService
}

// HandleRequest handles POST /v1/auth/password-reset/request
//
//	@Summary		Request a password reset
//	@Description	Emails a single-use reset token. The response is identical whether or not the address has an account.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/password-reset/request [post].
func (h *PasswordResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	msg, err := h.Resets.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Success: true, Message: msg})
}

// HandleConfirm handles POST /v1/auth/password-reset/confirm
//
//	@Summary		Reset a password
//	@Description	Sets a new password with a reset token, unlocks the account and ends every session of the user.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetConfirmRequest	true	"Token and new password"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Weak password, or invalid or expired token"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Token already used"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/password-reset/confirm [post].
func (h *PasswordResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PasswordResetConfirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	msg, err := h.Resets.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Success: true, Message: msg})
}
