package service

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// User-safe errors returned by the auth services. Their messages are what the
// HTTP layer shows to callers.
var (
	ErrInvalidCredentials      = errors.New("Invalid email or password")
	ErrAccountDeactivated      = errors.New("Account is deactivated. Please contact an administrator.")
	ErrInvalidAccountConfig    = errors.New("Invalid account configuration")
	ErrInvalidRefresh          = errors.New("Invalid or expired refresh token")
	ErrUnauthenticated         = errors.New("Authentication required")
	ErrInsufficientPermissions = errors.New("Insufficient permissions")
	ErrEmailTaken              = errors.New("A user with this email already exists")
	ErrInvalidResetToken       = errors.New("Invalid or expired reset token")
	ErrResetTokenUsed          = errors.New("Reset token has already been used")
	ErrWeakPassword            = errors.New("Password must be at least 8 characters long")
	ErrMFARequired             = errors.New("Two-factor code required")
	ErrInvalidMFACode          = errors.New("Invalid two-factor code")
	ErrMFANotEnrolled          = errors.New("Two-factor authentication is not enrolled")
	ErrMFANotEnabled           = errors.New("Two-factor authentication is not enabled")
	ErrMFAAlreadyEnabled       = errors.New("Two-factor authentication is already enabled")
	ErrSuperAdminExists        = errors.New("A superadmin already exists")
	ErrInvalidBootstrapKey     = errors.New("Invalid bootstrap key")
	ErrInvalidInput            = errors.New("Invalid input")
	ErrNotFound                = errors.New("Not found")
	ErrAlreadyMember           = errors.New("A membership for this hub already exists")
	ErrHubNameTaken            = errors.New("A hub with this name already exists")
)

// LockedError reports a sign-in rejected because the account is locked.
type LockedError struct {
	Until            time.Time
	MinutesRemaining int
}

func newLockedError(until, now time.Time) *LockedError {
	return &LockedError{
		Until:            until,
		MinutesRemaining: minutesUntil(until, now),
	}
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("Account is locked. Try again in %d minutes.", e.MinutesRemaining)
}

// minutesUntil rounds the remaining lock time up to whole minutes.
func minutesUntil(until, now time.Time) int {
	ms := until.Sub(now).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Ceil(float64(ms) / 60000))
}
