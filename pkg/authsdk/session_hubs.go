package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateHub requires a global admin.
func (s *Session) CreateHub(ctx context.Context, req HubRequest) (*Hub, error) {
	var out HubResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/v1/hubs", req, &out); err != nil {
		return nil, err
	}
	return &out.Hub, nil
}

// UpdateHub requires a global admin or a lead of the hub.
func (s *Session) UpdateHub(ctx context.Context, hubID string, req HubRequest) (*Hub, error) {
	var out HubResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/v1/hubs/"+url.PathEscape(hubID), req, &out); err != nil {
		return nil, err
	}
	return &out.Hub, nil
}

// DeleteHub removes the hub and its memberships. Requires a global admin.
func (s *Session) DeleteHub(ctx context.Context, hubID string) error {
	var out SuccessResponse
	return s.doAuthJSON(ctx, http.MethodDelete, "/v1/hubs/"+url.PathEscape(hubID), nil, &out)
}

// ApplyForMembership files a pending application for the signed-in user.
func (s *Session) ApplyForMembership(ctx context.Context, hubID string) (*Membership, error) {
	var out MembershipResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/v1/hubs/"+url.PathEscape(hubID)+"/memberships", nil, &out); err != nil {
		return nil, err
	}
	return &out.Membership, nil
}

// ReviewMembership approves or rejects an application. Requires a global
// admin or a lead of the hub.
func (s *Session) ReviewMembership(ctx context.Context, membershipID string, approve bool) (*Membership, error) {
	var out MembershipResponse
	path := "/v1/memberships/" + url.PathEscape(membershipID) + "/review"
	if err := s.doAuthJSON(ctx, http.MethodPost, path, ReviewMembershipRequest{Approve: approve}, &out); err != nil {
		return nil, err
	}
	return &out.Membership, nil
}

// SetMembershipRole requires a global admin.
func (s *Session) SetMembershipRole(ctx context.Context, membershipID, role string) (*Membership, error) {
	var out MembershipResponse
	path := "/v1/memberships/" + url.PathEscape(membershipID) + "/role"
	if err := s.doAuthJSON(ctx, http.MethodPost, path, MembershipRoleRequest{Role: role}, &out); err != nil {
		return nil, err
	}
	return &out.Membership, nil
}
