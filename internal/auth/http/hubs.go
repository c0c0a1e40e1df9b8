package http

import (
	"net/http"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
)

type HubsHandler struct {
	Hubs *service.HubService
}

// HandleList handles GET /v1/hubs
//
//	@Summary	List hubs
//	@Tags		Hubs
//	@Produce	json
//	@Success	200	{object}	authsdk.HubListResponse
//	@Failure	500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router		/v1/hubs [get].
func (h *HubsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hubs, err := h.Hubs.ListHubs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]authsdk.Hub, 0, len(hubs))
	for _, hub := range hubs {
		out = append(out, toHub(hub))
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.HubListResponse{Success: true, Hubs: out})
}

// HandleCreate handles POST /v1/hubs
//
//	@Summary	Create a hub
//	@Tags		Hubs
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		authsdk.HubRequest	true	"Hub"
//	@Success	200		{object}	authsdk.HubResponse
//	@Failure	400		{object}	authsdk.ErrorResponse	"Invalid name"
//	@Failure	403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure	409		{object}	authsdk.ErrorResponse	"Name already taken"
//	@Router		/v1/hubs [post].
func (h *HubsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.HubRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	hub, err := h.Hubs.CreateHub(r.Context(), httpx.AccessTokenFromContext(r.Context()), service.HubInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.HubResponse{Success: true, Hub: toHub(hub)})
}

// HandleUpdate handles PATCH /v1/hubs/{id}
//
//	@Summary		Update a hub
//	@Description	Global admins and leads of the hub may rename it or change its description.
//	@Tags			Hubs
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Hub ID"
//	@Param			request	body		authsdk.HubRequest	true	"Hub"
//	@Success		200		{object}	authsdk.HubResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid name"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Hub not found"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Name already taken"
//	@Router			/v1/hubs/{id} [patch].
func (h *HubsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.HubRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	hub, err := h.Hubs.UpdateHub(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"), service.HubInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.HubResponse{Success: true, Hub: toHub(hub)})
}

// HandleDelete handles DELETE /v1/hubs/{id}
//
//	@Summary	Delete a hub
//	@Tags		Hubs
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Hub ID"
//	@Success	200	{object}	authsdk.SuccessResponse
//	@Failure	403	{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure	404	{object}	authsdk.ErrorResponse	"Hub not found"
//	@Router		/v1/hubs/{id} [delete].
func (h *HubsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Hubs.DeleteHub(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SuccessResponse{Success: true})
}

// HandleApply handles POST /v1/hubs/{id}/memberships
//
//	@Summary	Apply for hub membership
//	@Tags		Hubs
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Hub ID"
//	@Success	200	{object}	authsdk.MembershipResponse
//	@Failure	404	{object}	authsdk.ErrorResponse	"Hub not found"
//	@Failure	409	{object}	authsdk.ErrorResponse	"Already a member or applicant"
//	@Router		/v1/hubs/{id}/memberships [post].
func (h *HubsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	m, err := h.Hubs.ApplyForMembership(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MembershipResponse{Success: true, Membership: toMembership(m)})
}

// HandleReview handles POST /v1/memberships/{id}/review
//
//	@Summary		Approve or reject a membership
//	@Description	Global admins and leads of the membership's hub may review applications.
//	@Tags			Hubs
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Membership ID"
//	@Param			request	body		authsdk.ReviewMembershipRequest	true	"Decision"
//	@Success		200		{object}	authsdk.MembershipResponse
//	@Failure		403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Router			/v1/memberships/{id}/review [post].
func (h *HubsHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ReviewMembershipRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	m, err := h.Hubs.ReviewMembership(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"), req.Approve)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MembershipResponse{Success: true, Membership: toMembership(m)})
}

// HandleSetRole handles POST /v1/memberships/{id}/role
//
//	@Summary	Change a member's hub role
//	@Tags		Hubs
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Membership ID"
//	@Param		request	body		authsdk.MembershipRoleRequest	true	"Role"
//	@Success	200		{object}	authsdk.MembershipResponse
//	@Failure	400		{object}	authsdk.ErrorResponse	"Unknown role"
//	@Failure	403		{object}	authsdk.ErrorResponse	"Insufficient permissions"
//	@Failure	404		{object}	authsdk.ErrorResponse	"Membership not found"
//	@Router		/v1/memberships/{id}/role [post].
func (h *HubsHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MembershipRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	m, err := h.Hubs.SetMembershipRole(r.Context(), httpx.AccessTokenFromContext(r.Context()), r.PathValue("id"), domain.HubRole(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MembershipResponse{Success: true, Membership: toMembership(m)})
}
