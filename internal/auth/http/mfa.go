package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

// MFAHandler handles all MFA-related endpoints. The caller's session is
// checked before the MFA service sees the user id.
type MFAHandler struct {
	Sessions *service.SessionService
	MFA      *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the authenticated user. Sign-in only requires a code after confirmation.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TOTPEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		409	{object}	authsdk.ErrorResponse		"MFA already enabled"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Sessions.CurrentUser(ctx, httpx.AccessTokenFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	enroll, err := h.MFA.Enroll(ctx, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPEnrollResponse{
		Success: true,
		Secret:  enroll.Secret,
		URL:     enroll.URL,
		Issuer:  enroll.Issuer,
		Account: enroll.Account,
	})
}

// HandleConfirm handles POST /v1/mfa/totp/confirm
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Verifies a code from the authenticator app and turns on MFA for sign-in.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.SuccessResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid token or TOTP code"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Not enrolled or already enabled"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/totp/confirm [post].
func (h *MFAHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.MFA.Confirm, "MFA enabled")
}

// HandleDisable handles DELETE /v1/mfa/totp
//
//	@Summary		Disable TOTP MFA
//	@Description	Removes TOTP from the account. A current code is required.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.SuccessResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid token or TOTP code"
//	@Failure		409		{object}	authsdk.ErrorResponse	"MFA not enabled"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.MFA.Disable, "MFA disabled")
}

func (h *MFAHandler) withCode(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, code string) error,
	event string,
) {
	ctx := r.Context()

	var req authsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	user, err := h.Sessions.CurrentUser(ctx, httpx.AccessTokenFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := op(ctx, user.ID, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info(event, "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
