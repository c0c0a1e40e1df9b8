package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func totpCode(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at.UTC(), totpOpts)
	require.NoError(t, err)
	return code
}

// wrongCode returns a six digit code that does not validate for secret at at.
func wrongCode(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	for i := 0; i < 1000; i++ {
		code := fmt.Sprintf("%06d", i)
		if !validateTOTP(code, secret, at) {
			return code
		}
	}
	t.Fatal("no invalid code found")
	return ""
}

func TestMFA_EnrollConfirmSignIn(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	enroll, err := f.mfa.Enroll(f.ctx, alice.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enroll.Secret)
	require.Contains(t, enroll.URL, "otpauth://totp/")
	require.Equal(t, DefaultTOTPIssuer, enroll.Issuer)
	require.Equal(t, alice.Email, enroll.Account)

	// Enrolled but unconfirmed: sign-in still needs only the password.
	f.signIn(t, alice)

	require.ErrorIs(t, f.mfa.Confirm(f.ctx, alice.ID, wrongCode(t, enroll.Secret, f.clock.Now())), ErrInvalidMFACode)
	require.NoError(t, f.mfa.Confirm(f.ctx, alice.ID, totpCode(t, enroll.Secret, f.clock.Now())))
	require.ErrorIs(t, f.mfa.Confirm(f.ctx, alice.ID, totpCode(t, enroll.Secret, f.clock.Now())), ErrMFAAlreadyEnabled)

	_, err = f.mfa.Enroll(f.ctx, alice.ID)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)

	// A missing code is not a failed attempt.
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.ErrorIs(t, err, ErrMFARequired)
	require.Zero(t, f.user(t, alice.ID).FailedLoginAttempts)

	// A wrong code is.
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword, OTPCode: wrongCode(t, enroll.Secret, f.clock.Now())})
	require.ErrorIs(t, err, ErrInvalidMFACode)
	require.Equal(t, 1, f.user(t, alice.ID).FailedLoginAttempts)

	res, err := f.sessions.SignIn(f.ctx, SignInInput{
		Email:    alice.Email,
		Password: testPassword,
		OTPCode:  totpCode(t, enroll.Secret, f.clock.Now()),
	})
	require.NoError(t, err)
	require.Equal(t, alice.ID, res.User.ID)
	require.Zero(t, f.user(t, alice.ID).FailedLoginAttempts)

	// Disable needs a valid code too.
	require.ErrorIs(t, f.mfa.Disable(f.ctx, alice.ID, wrongCode(t, enroll.Secret, f.clock.Now())), ErrInvalidMFACode)
	require.NoError(t, f.mfa.Disable(f.ctx, alice.ID, totpCode(t, enroll.Secret, f.clock.Now())))
	require.ErrorIs(t, f.mfa.Disable(f.ctx, alice.ID, "000000"), ErrMFANotEnabled)

	f.signIn(t, alice)
}

func TestMFA_ConfirmWithoutEnroll(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	require.ErrorIs(t, f.mfa.Confirm(f.ctx, alice.ID, "123456"), ErrMFANotEnrolled)
	require.ErrorIs(t, f.mfa.Confirm(f.ctx, "missing", "123456"), ErrNotFound)
}

func TestMFA_WrongCodesLockAccount(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	enroll, err := f.mfa.Enroll(f.ctx, alice.ID)
	require.NoError(t, err)
	require.NoError(t, f.mfa.Confirm(f.ctx, alice.ID, totpCode(t, enroll.Secret, f.clock.Now())))

	bad := wrongCode(t, enroll.Secret, f.clock.Now())
	for range DefaultMaxFailedAttempts - 1 {
		_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword, OTPCode: bad})
		require.ErrorIs(t, err, ErrInvalidMFACode)
	}
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword, OTPCode: bad})
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
}
