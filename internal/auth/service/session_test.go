package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSignIn_ThenCurrentUser(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	res, err := f.sessions.SignIn(f.ctx, SignInInput{
		Email:      "  Alice@Example.org ",
		Password:   testPassword,
		DeviceInfo: "firefox",
	})
	require.NoError(t, err)
	require.Equal(t, alice.ID, res.User.ID)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
	require.True(t, res.Tokens.ExpiresAt.Equal(f.clock.Now().Add(24*time.Hour)))
	require.True(t, res.Tokens.RefreshExpiresAt.Equal(f.clock.Now().Add(7*24*time.Hour)))

	me, err := f.sessions.CurrentUser(f.ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, alice.ID, me.ID)

	session, err := f.store.Sessions().GetSessionByAccessHash(f.ctx, cryptox.FingerprintToken(res.Tokens.AccessToken))
	require.NoError(t, err)
	require.Equal(t, alice.ID, session.UserID)
	require.Equal(t, "firefox", session.DeviceInfo)

	stored := f.user(t, alice.ID)
	require.NotNil(t, stored.LastLoginAt)
	require.Zero(t, stored.FailedLoginAttempts)
}

func TestSignIn_DoesNotRevealUnknownEmail(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice@example.org", domain.RoleMember)

	_, unknownErr := f.sessions.SignIn(f.ctx, SignInInput{Email: "nobody@example.org", Password: testPassword})
	_, wrongErr := f.sessions.SignIn(f.ctx, SignInInput{Email: "alice@example.org", Password: "wrong password"})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestSignIn_LocksAfterFiveFailures(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	for i := 1; i <= 4; i++ {
		_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: "nope"})
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i)
	}

	_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: "nope"})
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	require.Equal(t, 30, locked.MinutesRemaining)

	// The correct password is still rejected while locked.
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.ErrorAs(t, err, &locked)
	require.NotErrorIs(t, err, ErrInvalidCredentials)

	stored := f.user(t, alice.ID)
	require.Equal(t, 5, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockedUntil)
}

func TestSignIn_LockFromFourPriorFailures(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	for range 4 {
		_, err := f.store.Users().RecordLoginFailure(f.ctx, alice.ID, DefaultMaxFailedAttempts, DefaultLockDuration, f.clock.Now())
		require.NoError(t, err)
	}
	require.Equal(t, 4, f.user(t, alice.ID).FailedLoginAttempts)

	_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: "nope"})
	var locked *LockedError
	require.ErrorAs(t, err, &locked)

	stored := f.user(t, alice.ID)
	require.NotNil(t, stored.LockedUntil)
	require.True(t, stored.LockedUntil.After(f.clock.Now()))

	f.clock.Advance(29 * time.Minute)
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.ErrorAs(t, err, &locked)
	require.Equal(t, 1, locked.MinutesRemaining)

	f.clock.Advance(time.Minute)
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.NoError(t, err)

	stored = f.user(t, alice.ID)
	require.Zero(t, stored.FailedLoginAttempts)
	require.Nil(t, stored.LockedUntil)
}

// sessionWriteFailure hands out transactions whose session inserts fail.
type sessionWriteFailure struct{ store.Store }

func (s sessionWriteFailure) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(failingSessionsTx{tx})
	})
}

// baseTx names the embedded field so it does not shadow the promoted Tx method.
type baseTx = store.Tx

type failingSessionsTx struct{ baseTx }

func (tx failingSessionsTx) Sessions() store.Sessions { return failingSessions{tx.baseTx.Sessions()} }

type failingSessions struct{ store.Sessions }

func (failingSessions) CreateSession(context.Context, domain.AuthSession) error {
	return errors.New("disk full")
}

func TestSignIn_SessionWriteFailureKeepsLockoutState(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	for range 3 {
		_, err := f.store.Users().RecordLoginFailure(f.ctx, alice.ID, DefaultMaxFailedAttempts, DefaultLockDuration, f.clock.Now())
		require.NoError(t, err)
	}

	f.sessions.Store = sessionWriteFailure{f.store}
	_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.ErrorContains(t, err, "disk full")

	stored := f.user(t, alice.ID)
	require.Equal(t, 3, stored.FailedLoginAttempts)
	require.Nil(t, stored.LastLoginAt)

	f.sessions.Store = f.store
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.NoError(t, err)
	require.Zero(t, f.user(t, alice.ID).FailedLoginAttempts)
}

func TestSignIn_CheckOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)

	require.NoError(t, f.store.Users().SetActive(f.ctx, alice.ID, false, f.clock.Now()))

	// Deactivated accounts are rejected before the password is checked and
	// without counting a failure.
	_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: "nope"})
	require.ErrorIs(t, err, ErrAccountDeactivated)
	require.Zero(t, f.user(t, alice.ID).FailedLoginAttempts)

	// A lock takes precedence over deactivation.
	for range 5 {
		_, err := f.store.Users().RecordLoginFailure(f.ctx, alice.ID, DefaultMaxFailedAttempts, DefaultLockDuration, f.clock.Now())
		require.NoError(t, err)
	}
	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
}

func TestSignIn_MalformedStoredHash(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	require.NoError(t, f.store.Users().UpdatePasswordHash(f.ctx, alice.ID, "no-separator", f.clock.Now()))

	_, err := f.sessions.SignIn(f.ctx, SignInInput{Email: alice.Email, Password: testPassword})
	require.ErrorIs(t, err, ErrInvalidAccountConfig)
}

func TestRefresh_RotatesAndInvalidatesPrevious(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	first := f.signIn(t, alice)

	f.clock.Advance(time.Minute)
	second, err := f.sessions.Refresh(f.ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = f.sessions.Refresh(f.ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The old access token no longer maps to the session.
	_, err = f.sessions.CurrentUser(f.ctx, first.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)

	me, err := f.sessions.CurrentUser(f.ctx, second.AccessToken)
	require.NoError(t, err)
	require.Equal(t, alice.ID, me.ID)

	third, err := f.sessions.Refresh(f.ctx, second.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, third.AccessToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	pair := f.signIn(t, alice)

	_, err := f.sessions.Refresh(f.ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = f.sessions.CurrentUser(f.ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSession_ExpiryStates(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	pair := f.signIn(t, alice)

	// Access expired, refresh still valid.
	f.clock.Advance(24 * time.Hour)
	_, err := f.sessions.CurrentUser(f.ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)

	rotated, err := f.sessions.Refresh(f.ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = f.sessions.CurrentUser(f.ctx, rotated.AccessToken)
	require.NoError(t, err)

	// Both expired.
	f.clock.Advance(7 * 24 * time.Hour)
	_, err = f.sessions.Refresh(f.ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	pair := f.signIn(t, alice)

	require.NoError(t, f.store.Users().SetActive(f.ctx, alice.ID, false, f.clock.Now()))

	_, err := f.sessions.Refresh(f.ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = f.sessions.CurrentUser(f.ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignOut_Idempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice@example.org", domain.RoleMember)
	pair := f.signIn(t, alice)

	require.NoError(t, f.sessions.SignOut(f.ctx, pair.AccessToken))
	require.NoError(t, f.sessions.SignOut(f.ctx, pair.AccessToken))
	require.NoError(t, f.sessions.SignOut(f.ctx, "not-a-token"))

	_, err := f.sessions.CurrentUser(f.ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.sessions.Refresh(f.ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestMinutesUntil(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 0, minutesUntil(now, now))
	require.Equal(t, 1, minutesUntil(now.Add(time.Millisecond), now))
	require.Equal(t, 1, minutesUntil(now.Add(time.Minute), now))
	require.Equal(t, 2, minutesUntil(now.Add(time.Minute+time.Second), now))
	require.Equal(t, 30, minutesUntil(now.Add(30*time.Minute), now))
}
