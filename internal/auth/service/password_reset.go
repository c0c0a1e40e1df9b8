package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/aussiebroadwan/hubsite/pkg/idx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const (
	DefaultResetTokenTTL = 30 * time.Minute
	MinPasswordLength    = 8
)

// Messages returned on success. The request message is identical whether or
// not the email belongs to an account.
const (
	ResetRequestedMessage = "If an account exists for that email, a reset link has been sent."
	ResetCompleteMessage  = "Password has been reset. Please sign in with your new password."
)

type PasswordResetService struct {
	Store    store.Store
	Notifier Notifier
	TokenTTL time.Duration
	Metrics  *metricsx.Metrics

	// ResetURL is the page that completes a reset, e.g.
	// https://hub.example.org/reset-password. When set, notifications carry a
	// "link" with the token in its query.
	ResetURL string
	Now      func() time.Time
}

func (s *PasswordResetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RequestPasswordReset issues a reset token for an active account with email
// and hands it to the Notifier. Any previous tokens of the user are dropped.
// Only infrastructure faults are returned as errors.
func (s *PasswordResetService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		s.Metrics.PasswordReset("request", "ignored")
		return ResetRequestedMessage, nil
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.PasswordReset("request", "ignored")
			return ResetRequestedMessage, nil
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !u.IsActive {
		s.Metrics.PasswordReset("request", "ignored")
		l.Info("password reset requested for inactive account", slog.String("user_id", u.ID))
		return ResetRequestedMessage, nil
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.PasswordResets().DeleteUserResetTokens(ctx, u.ID); err != nil {
			return fmt.Errorf("delete previous reset tokens: %w", err)
		}
		return tx.PasswordResets().CreateResetToken(ctx, domain.PasswordResetToken{
			ID:        idx.New(),
			UserID:    u.ID,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(ttlOrDefault(s.TokenTTL, DefaultResetTokenTTL)),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifyPasswordReset,
		To:   u.Email,
		Data: resetData(u.Name, token, s.ResetURL),
	})

	s.Metrics.PasswordReset("request", "issued")
	l.Info("password reset token issued", slog.String("user_id", u.ID))
	return ResetRequestedMessage, nil
}

// ResetPassword consumes token and sets newPassword. The account is unlocked
// and every existing session of the user is revoked.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		s.Metrics.PasswordReset("confirm", "weak_password")
		return "", ErrWeakPassword
	}

	token = strings.TrimSpace(token)
	if token == "" {
		s.Metrics.PasswordReset("confirm", "invalid_token")
		return "", ErrInvalidResetToken
	}

	rt, err := s.Store.PasswordResets().GetResetTokenByHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.PasswordReset("confirm", "invalid_token")
			return "", ErrInvalidResetToken
		}
		return "", fmt.Errorf("lookup reset token: %w", err)
	}
	if rt.UsedAt != nil {
		s.Metrics.PasswordReset("confirm", "used_token")
		return "", ErrResetTokenUsed
	}
	if !now.Before(rt.ExpiresAt) {
		s.Metrics.PasswordReset("confirm", "invalid_token")
		return "", ErrInvalidResetToken
	}

	hash, err := cryptox.NewPasswordHash(newPassword)
	if err != nil {
		return "", err
	}

	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PasswordResets().MarkResetTokenUsed(ctx, rt.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetTokenUsed
			}
			return fmt.Errorf("mark reset token used: %w", err)
		}
		if err := tx.Users().UpdatePasswordHash(ctx, rt.UserID, hash, now); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := tx.Users().ClearLockout(ctx, rt.UserID, now); err != nil {
			return fmt.Errorf("clear lockout: %w", err)
		}
		n, err := tx.Sessions().DeleteUserSessions(ctx, rt.UserID)
		if err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		revoked = n
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrResetTokenUsed) {
			s.Metrics.PasswordReset("confirm", "used_token")
		}
		return "", err
	}

	s.Metrics.PasswordReset("confirm", "success")
	l.Info("password reset", slog.String("user_id", rt.UserID), slog.Int64("sessions_revoked", revoked))
	return ResetCompleteMessage, nil
}

func resetData(name, token, base string) map[string]string {
	data := map[string]string{"name": name, "token": token}
	if link := resetLink(base, token); link != "" {
		data["link"] = link
	}
	return data
}
