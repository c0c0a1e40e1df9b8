package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const DefaultTOTPIssuer = "Hubsite"

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type MFAService struct {
	Store  store.Store
	Issuer string // shown by authenticator apps
	Now    func() time.Time
}

func (s *MFAService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Enroll generates a TOTP secret for the user. Two-factor sign-in is not
// required until Confirm succeeds with a code from that secret.
func (s *MFAService) Enroll(ctx context.Context, userID string) (domain.MFAEnrollResponse, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollResponse{}, mapStoreErr(err, "lookup user")
	}
	if u.MFAEnabled() {
		return domain.MFAEnrollResponse{}, ErrMFAAlreadyEnabled
	}

	issuer := s.Issuer
	if issuer == "" {
		issuer = DefaultTOTPIssuer
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: u.Email,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
	if err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, u.ID, key.Secret(), s.now()); err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollResponse{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  issuer,
		Account: u.Email,
	}, nil
}

// Confirm enables two-factor sign-in once code matches the enrolled secret.
func (s *MFAService) Confirm(ctx context.Context, userID, code string) error {
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "lookup user")
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if u.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if !validateTOTP(code, *u.MFASecret, now) {
		return ErrInvalidMFACode
	}

	if err := s.Store.Users().EnableMFA(ctx, u.ID, now); err != nil {
		return fmt.Errorf("failed to enable MFA: %w", err)
	}
	slogx.FromContext(ctx).Info("two-factor authentication enabled", slog.String("user_id", u.ID))
	return nil
}

// Disable turns two-factor sign-in off after verifying a current code.
func (s *MFAService) Disable(ctx context.Context, userID, code string) error {
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "lookup user")
	}
	if !u.MFAEnabled() {
		return ErrMFANotEnabled
	}
	if !validateTOTP(code, *u.MFASecret, now) {
		return ErrInvalidMFACode
	}

	if err := s.Store.Users().DisableMFA(ctx, u.ID, now); err != nil {
		return fmt.Errorf("failed to disable MFA: %w", err)
	}
	slogx.FromContext(ctx).Info("two-factor authentication disabled", slog.String("user_id", u.ID))
	return nil
}

func validateTOTP(code, secret string, now time.Time) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, now.UTC(), totpOpts)
	return err == nil && ok
}
