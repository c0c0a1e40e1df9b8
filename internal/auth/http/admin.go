package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

// AdminHandler serves privileged account operations. Permission checks happen
// in the service against the caller's live session.
type AdminHandler struct {
	Admin *service.AdminService
}

// HandleCreateAdmin handles POST /v1/admin/users
//
//	@Summary		Create an admin account
//	@Description	Creates a user with the admin role. A password is generated and returned once when none is given.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateUserRequest	true	"New account"
//	@Success		200		{object}	authsdk.CreateUserResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid input or weak password"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/users [post].
func (h *AdminHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	created, err := h.Admin.CreateAdminUser(r.Context(), httpx.AccessTokenFromContext(r.Context()), service.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CreateUserResponse{
		Success:           true,
		User:              toUser(created.User),
		GeneratedPassword: created.GeneratedPassword,
	})
}

// HandleCreateSuperAdmin handles POST /v1/admin/superadmin
//
//	@Summary		Bootstrap the first superadmin
//	@Description	Creates the first superadmin. Requires the configured bootstrap key and only works while no superadmin exists.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateSuperAdminRequest	true	"Bootstrap key and account"
//	@Success		200		{object}	authsdk.CreateUserResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid input or weak password"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Invalid bootstrap key"
//	@Failure		409		{object}	authsdk.ErrorResponse	"A superadmin already exists"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/superadmin [post].
func (h *AdminHandler) HandleCreateSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateSuperAdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	created, err := h.Admin.CreateSuperAdmin(r.Context(), req.BootstrapKey, service.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidBootstrapKey) {
			slogx.FromContext(r.Context()).Warn("superadmin bootstrap rejected",
				"remote_ip", httpx.IPKeyExtractor(r))
		}
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CreateUserResponse{
		Success:           true,
		User:              toUser(created.User),
		GeneratedPassword: created.GeneratedPassword,
	})
}

// HandleGrantTemporaryAdmin handles POST /v1/admin/users/{id}/temporary-admin
//
//	@Summary		Grant temporary admin access
//	@Description	Gives a user admin rights until the returned time. Defaults to 24 hours, capped at 30 days.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		authsdk.TemporaryAdminRequest	false	"Duration"
//	@Success		200		{object}	authsdk.TemporaryAdminResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid duration"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure		404		{object}	authsdk.ErrorResponse	"User not found"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/users/{id}/temporary-admin [post].
func (h *AdminHandler) HandleGrantTemporaryAdmin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TemporaryAdminRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			writeBadRequest(w, r, err)
			return
		}
	}
	if req.DurationHours < 0 {
		writeError(w, r, service.ErrInvalidInput)
		return
	}

	until, err := h.Admin.GrantTemporaryAdminAccess(r.Context(),
		httpx.AccessTokenFromContext(r.Context()),
		r.PathValue("id"),
		temporaryAdminDuration(req.DurationHours),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TemporaryAdminResponse{Success: true, Until: until})
}

// temporaryAdminDuration converts requested hours, clamping first so large
// values cannot overflow time.Duration.
func temporaryAdminDuration(hours int) time.Duration {
	if maxHours := int(service.MaxTemporaryAdminDuration / time.Hour); hours > maxHours {
		hours = maxHours
	}
	return time.Duration(hours) * time.Hour
}

// HandleRevokeTemporaryAdmin handles DELETE /v1/admin/users/{id}/temporary-admin
//
//	@Summary		Revoke temporary admin access
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	authsdk.SuccessResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User not found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/users/{id}/temporary-admin [delete].
func (h *AdminHandler) HandleRevokeTemporaryAdmin(w http.ResponseWriter, r *http.Request) {
	err := h.Admin.RevokeTemporaryAdminAccess(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}

// HandleDeactivate handles POST /v1/admin/users/{id}/deactivate
//
//	@Summary		Deactivate a user
//	@Description	Disables the account and ends all of its sessions. Admins cannot deactivate themselves or a superadmin.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	authsdk.SuccessResponse
//	@Failure		400	{object}	authsdk.ErrorResponse	"Cannot deactivate yourself"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User not found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/admin/users/{id}/deactivate [post].
func (h *AdminHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	err := h.Admin.DeactivateUser(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}
