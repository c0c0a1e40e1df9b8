package authsdk

import (
	"context"
	"net/http"
)

// EnrollTOTP starts TOTP enrollment. Sign-in keeps working without a code
// until ConfirmTOTP succeeds.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/totp/enroll", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmTOTP activates enrollment with a code from the authenticator app.
func (s *Session) ConfirmTOTP(ctx context.Context, code string) error {
	var out SuccessResponse
	return s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/totp/confirm", TOTPCodeRequest{Code: code}, &out)
}

// DisableTOTP removes TOTP from the account. A current code is required.
func (s *Session) DisableTOTP(ctx context.Context, code string) error {
	var out SuccessResponse
	return s.doAuthJSON(ctx, http.MethodDelete, "/v1/mfa/totp", TOTPCodeRequest{Code: code}, &out)
}
