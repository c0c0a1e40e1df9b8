package authsdk

import (
	"context"
	"net/http"
)

// SignIn exchanges an email and password for a token pair. Accounts with
// confirmed TOTP also need req.OTPCode.
func (c *SDKClient) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	var out SignInResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/sign-in", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a session's token pair. The old refresh token stops working.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var out TokensResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out.Tokens, nil
}

// RequestPasswordReset asks for a reset email. The response is the same
// whether or not the address belongs to an account.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/password-reset/request", "", PasswordResetRequest{Email: email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword sets a new password with a token from the reset email.
func (c *SDKClient) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	req := PasswordResetConfirmRequest{Token: token, NewPassword: newPassword}
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/password-reset/confirm", "", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CreateSuperAdmin creates the first superadmin. It succeeds once per
// deployment and needs the configured bootstrap key.
func (c *SDKClient) CreateSuperAdmin(ctx context.Context, req CreateSuperAdminRequest) (*CreateUserResponse, error) {
	var out CreateUserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/admin/superadmin", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHubs returns every hub. No authentication is needed.
func (c *SDKClient) ListHubs(ctx context.Context) ([]Hub, error) {
	var out HubListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/hubs", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Hubs, nil
}
