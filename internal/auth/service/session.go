package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/aussiebroadwan/hubsite/pkg/idx"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const maxDeviceInfoLength = 512

type SignInInput struct {
	Email      string
	Password   string
	DeviceInfo string
	OTPCode    string // required once two-factor authentication is enabled
}

type SignInResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// SessionService signs users in and out and keeps their sessions fresh.
// Tokens are never stored; sessions are keyed by token fingerprints.
type SessionService struct {
	Store      store.Store
	Codec      *jwtx.Codec
	Guard      *AccountGuard
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Metrics    *metricsx.Metrics
	Now        func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignIn authenticates by email and password. Checks run in a fixed order:
// lock, then active flag, then password, then two-factor code.
func (s *SessionService) SignIn(ctx context.Context, in SignInInput) (SignInResult, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		s.Metrics.SignIn("invalid_credentials")
		return SignInResult{}, ErrInvalidCredentials
	}

	users := s.Store.Users()
	u, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.SignIn("invalid_credentials")
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.Guard.CheckLock(u, now); err != nil {
		s.Metrics.SignIn("locked")
		l.Info("sign-in rejected, account locked", slog.String("user_id", u.ID))
		return SignInResult{}, err
	}

	if !u.IsActive {
		s.Metrics.SignIn("deactivated")
		l.Info("sign-in rejected, account deactivated", slog.String("user_id", u.ID))
		return SignInResult{}, ErrAccountDeactivated
	}

	ok, err := cryptox.VerifyEncodedPassword(in.Password, u.PasswordHash)
	if err != nil {
		s.Metrics.SignIn("error")
		l.Error("stored password hash is malformed", slog.String("user_id", u.ID))
		return SignInResult{}, ErrInvalidAccountConfig
	}
	if !ok {
		err := s.Guard.RecordFailure(ctx, users, u.ID, now, ErrInvalidCredentials)
		s.Metrics.SignIn(signInResult(err))
		return SignInResult{}, err
	}

	if u.MFAEnabled() {
		code := strings.TrimSpace(in.OTPCode)
		if code == "" {
			s.Metrics.SignIn("mfa_required")
			return SignInResult{}, ErrMFARequired
		}
		if !validateTOTP(code, *u.MFASecret, now) {
			err := s.Guard.RecordFailure(ctx, users, u.ID, now, ErrInvalidMFACode)
			s.Metrics.SignIn(signInResult(err))
			return SignInResult{}, err
		}
	}

	pair, session, err := s.issuePair(u.ID, now)
	if err != nil {
		return SignInResult{}, err
	}
	session.ID = idx.New()
	session.UserID = u.ID
	session.DeviceInfo = truncate(strings.TrimSpace(in.DeviceInfo), maxDeviceInfoLength)
	session.CreatedAt = now

	// The failure counter resets only if the session is actually stored.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.Guard.RecordSuccess(ctx, tx.Users(), u.ID, now); err != nil {
			return err
		}
		if err := tx.Sessions().CreateSession(ctx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		s.Metrics.SignIn("error")
		return SignInResult{}, err
	}

	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now

	s.Metrics.SignIn("success")
	l.Info("user signed in", slog.String("user_id", u.ID), slog.String("session_id", session.ID))
	return SignInResult{User: u, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair and rotates the session in
// place. A refresh token that was already rotated fails closed.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	refreshToken = strings.TrimSpace(refreshToken)
	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		s.Metrics.Refresh("invalid_token")
		l.Info("refresh token rejected", slog.String("kind", string(jwtx.KindOf(err))), slog.Any("error", err))
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	hash := cryptox.FingerprintToken(refreshToken)
	sessions := s.Store.Sessions()
	current, err := sessions.GetSessionByRefreshHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Refresh("stale")
			l.Info("refresh token does not match a live session", slog.String("user_id", claims.UserID))
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, fmt.Errorf("lookup session: %w", err)
	}

	if !now.Before(current.RefreshExpiresAt) || current.UserID != claims.UserID {
		s.Metrics.Refresh("expired")
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Refresh("inactive")
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.IsActive {
		s.Metrics.Refresh("inactive")
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	pair, next, err := s.issuePair(u.ID, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := sessions.RotateSession(ctx, current.ID, hash, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Refresh("stale")
			l.Warn("refresh token lost rotation race", slog.String("session_id", current.ID))
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, fmt.Errorf("rotate session: %w", err)
	}

	s.Metrics.Refresh("success")
	l.Debug("session rotated", slog.String("session_id", current.ID))
	return pair, nil
}

// SignOut removes the session of accessToken. Unknown tokens are ignored.
func (s *SessionService) SignOut(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	if err := s.Store.Sessions().DeleteSessionByAccessHash(ctx, cryptox.FingerprintToken(accessToken)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slogx.FromContext(ctx).Debug("session signed out")
	return nil
}

// CurrentUser returns the user behind accessToken. Besides the token itself the
// session row must still exist and be unexpired.
func (s *SessionService) CurrentUser(ctx context.Context, accessToken string) (domain.User, error) {
	now := s.now()

	accessToken = strings.TrimSpace(accessToken)
	claims, err := s.Codec.VerifyAccess(accessToken)
	if err != nil {
		slogx.FromContext(ctx).Debug("access token rejected", slog.Any("error", err))
		return domain.User{}, ErrUnauthenticated
	}

	session, err := s.Store.Sessions().GetSessionByAccessHash(ctx, cryptox.FingerprintToken(accessToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, fmt.Errorf("lookup session: %w", err)
	}
	if !now.Before(session.ExpiresAt) || session.UserID != claims.UserID {
		return domain.User{}, ErrUnauthenticated
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.IsActive {
		return domain.User{}, ErrUnauthenticated
	}

	if err := s.Store.Sessions().TouchSession(ctx, session.ID, now); err != nil {
		slogx.FromContext(ctx).Warn("failed to touch session", slog.String("session_id", session.ID), slog.Any("error", err))
	}
	return u, nil
}

// VerifyAccess checks an access token's signature, expiry and claims only. It
// lets the session service act as the bearer verifier of the HTTP layer.
func (s *SessionService) VerifyAccess(token string) (*jwtx.Claims, error) {
	return s.Codec.VerifyAccess(token)
}

// issuePair mints an access and refresh token and returns the session fields
// derived from them.
func (s *SessionService) issuePair(userID string, now time.Time) (domain.TokenPair, domain.AuthSession, error) {
	access, accessExp, err := s.Codec.IssueAccess(userID, ttlOrDefault(s.AccessTTL, jwtx.DefaultAccessTokenTTL))
	if err != nil {
		return domain.TokenPair{}, domain.AuthSession{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshExp, err := s.Codec.IssueRefresh(userID, ttlOrDefault(s.RefreshTTL, jwtx.DefaultRefreshTokenTTL))
	if err != nil {
		return domain.TokenPair{}, domain.AuthSession{}, fmt.Errorf("issue refresh token: %w", err)
	}

	pair := domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}
	session := domain.AuthSession{
		AccessTokenHash:  cryptox.FingerprintToken(access),
		RefreshTokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
		LastUsedAt:       now,
	}
	return pair, session, nil
}

func signInResult(err error) string {
	var locked *LockedError
	switch {
	case errors.As(err, &locked):
		return "locked"
	case errors.Is(err, ErrInvalidMFACode):
		return "invalid_mfa_code"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}

func ttlOrDefault(ttl, def time.Duration) time.Duration {
	if ttl <= 0 {
		return def
	}
	return ttl
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
