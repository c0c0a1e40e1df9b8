package http

import (
	"net/http"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
)

// AuthHandler serves sign-in, session refresh, sign-out and the current user.
type AuthHandler struct {
	Sessions *service.SessionService
}

// HandleSignIn handles POST /v1/auth/sign-in
//
//	@Summary		Sign in
//	@Description	Exchanges an email and password for an access and refresh token pair.
//	@Description	Accounts with confirmed TOTP must also send otpCode. Five consecutive failures lock the account for 30 minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.SignInResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials, locked or deactivated account, or missing MFA code"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/sign-in [post].
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	device := req.DeviceInfo
	if device == "" {
		device = r.UserAgent()
	}

	res, err := h.Sessions.SignIn(r.Context(), service.SignInInput{
		Email:      req.Email,
		Password:   req.Password,
		DeviceInfo: device,
		OTPCode:    req.OTPCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SignInResponse{
		Success: true,
		User:    toUser(res.User),
		Tokens:  toTokens(res.Tokens),
	})
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh a session
//	@Description	Rotates the session's token pair. The presented refresh token stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokensResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or expired refresh token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	tokens, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokensResponse{
		Success: true,
		Tokens:  toTokens(tokens),
	})
}

// HandleSignOut handles POST /v1/auth/sign-out
//
// The token is not verified: an expired or already revoked token still signs
// out successfully.
//
//	@Summary		Sign out
//	@Description	Deletes the session of the presented access token. Unknown tokens are ignored.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SuccessResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing bearer token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/sign-out [post].
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
		return
	}

	if err := h.Sessions.SignOut(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}

// HandleMe handles GET /v1/auth/me
//
//	@Summary		Current user
//	@Description	Returns the signed-in user. The session must still exist, not just the token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid token or session"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.Sessions.CurrentUser(r.Context(), httpx.AccessTokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{Success: true, User: toUser(u)})
}
