package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Admin operations. The server checks the caller's global role on each call.

// CreateAdminUser creates an account with the admin role.
// Requires: admin or superadmin
func (s *Session) CreateAdminUser(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	var out CreateUserResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/v1/admin/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GrantTemporaryAdminAccess gives userID admin rights for duration, rounded
// down to whole hours. Zero uses the server default.
// Requires: superadmin
func (s *Session) GrantTemporaryAdminAccess(ctx context.Context, userID string, duration time.Duration) (time.Time, error) {
	req := TemporaryAdminRequest{DurationHours: int(duration / time.Hour)}
	var out TemporaryAdminResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, userPath(userID, "temporary-admin"), req, &out); err != nil {
		return time.Time{}, err
	}
	return out.Until, nil
}

// RevokeTemporaryAdminAccess ends a temporary grant early.
// Requires: superadmin
func (s *Session) RevokeTemporaryAdminAccess(ctx context.Context, userID string) error {
	var out SuccessResponse
	return s.doAuthJSON(ctx, http.MethodDelete, userPath(userID, "temporary-admin"), nil, &out)
}

// DeactivateUser disables an account and ends all its sessions.
// Requires: admin or superadmin
func (s *Session) DeactivateUser(ctx context.Context, userID string) error {
	var out SuccessResponse
	return s.doAuthJSON(ctx, http.MethodPost, userPath(userID, "deactivate"), nil, &out)
}

func userPath(userID, action string) string {
	return "/v1/admin/users/" + url.PathEscape(userID) + "/" + action
}
