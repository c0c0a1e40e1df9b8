package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const (
	DefaultMaxFailedAttempts = 5
	DefaultLockDuration      = 30 * time.Minute
)

// AccountGuard tracks failed sign-ins and locks accounts that exceed the
// threshold. It is the only writer of failed_login_attempts and locked_until
// apart from password reset.
type AccountGuard struct {
	MaxAttempts  int
	LockDuration time.Duration
	Metrics      *metricsx.Metrics
}

func (g *AccountGuard) maxAttempts() int {
	if g == nil || g.MaxAttempts <= 0 {
		return DefaultMaxFailedAttempts
	}
	return g.MaxAttempts
}

func (g *AccountGuard) lockDuration() time.Duration {
	if g == nil || g.LockDuration <= 0 {
		return DefaultLockDuration
	}
	return g.LockDuration
}

// CheckLock returns a *LockedError when u is locked at now.
func (g *AccountGuard) CheckLock(u domain.User, now time.Time) error {
	if u.IsLocked(now) {
		return newLockedError(*u.LockedUntil, now)
	}
	return nil
}

// RecordFailure counts a failed attempt. It returns a *LockedError when this
// attempt locked the account and fallback otherwise.
func (g *AccountGuard) RecordFailure(ctx context.Context, users store.Users, userID string, now time.Time, fallback error) error {
	res, err := users.RecordLoginFailure(ctx, userID, g.maxAttempts(), g.lockDuration(), now)
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	if res.LockedUntil != nil && res.LockedUntil.After(now) {
		var m *metricsx.Metrics
		if g != nil {
			m = g.Metrics
		}
		m.Lockout()
		slogx.FromContext(ctx).Warn("account locked",
			slog.String("user_id", userID),
			slog.Int("failed_attempts", res.Attempts),
			slog.Time("locked_until", *res.LockedUntil),
		)
		return newLockedError(*res.LockedUntil, now)
	}
	return fallback
}

// RecordSuccess resets the counter and lock after a successful sign-in.
func (g *AccountGuard) RecordSuccess(ctx context.Context, users store.Users, userID string, now time.Time) error {
	if err := users.RecordLoginSuccess(ctx, userID, now); err != nil {
		return fmt.Errorf("record login success: %w", err)
	}
	return nil
}
