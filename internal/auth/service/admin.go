package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/aussiebroadwan/hubsite/pkg/idx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const (
	DefaultTemporaryAdminDuration = 24 * time.Hour
	MaxTemporaryAdminDuration     = 30 * 24 * time.Hour
)

type CreateUserInput struct {
	Email    string
	Name     string
	Password string // generated when empty
	Phone    string
	Position string
}

// CreatedUser is returned by the admin creation paths. GeneratedPassword is
// only set when no password was supplied.
type CreatedUser struct {
	User              domain.User
	GeneratedPassword string
}

// AdminService performs privileged account mutations. Every operation except
// the superadmin bootstrap is gated through the Resolver.
type AdminService struct {
	Store         store.Store
	Resolver      *Resolver
	Notifier      Notifier
	SuperAdminKey string // empty disables CreateSuperAdmin
	Now           func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateAdminUser creates an admin account. The caller must be a global admin.
func (s *AdminService) CreateAdminUser(ctx context.Context, token string, in CreateUserInput) (CreatedUser, error) {
	caller, err := s.Resolver.Authorize(ctx, token, GlobalAdmin())
	if err != nil {
		return CreatedUser{}, err
	}

	created, err := s.createUser(ctx, s.Store.Users(), in, domain.RoleAdmin)
	if err != nil {
		return CreatedUser{}, err
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifyAdminCreated,
		To:   created.User.Email,
		Data: map[string]string{"name": created.User.Name, "createdBy": caller.User.Name},
	})
	slogx.FromContext(ctx).Info("admin user created",
		slog.String("user_id", created.User.ID),
		slog.String("created_by", caller.User.ID),
	)
	return created, nil
}

// CreateSuperAdmin bootstraps the first superadmin. It requires the configured
// bootstrap key and fails once any superadmin exists.
func (s *AdminService) CreateSuperAdmin(ctx context.Context, bootstrapKey string, in CreateUserInput) (CreatedUser, error) {
	l := slogx.FromContext(ctx)

	if s.SuperAdminKey == "" {
		l.Warn("superadmin bootstrap attempted but no key is configured")
		return CreatedUser{}, ErrInvalidBootstrapKey
	}
	if !cryptox.EqualSecret(bootstrapKey, s.SuperAdminKey) {
		l.Warn("superadmin bootstrap attempted with a wrong key")
		return CreatedUser{}, ErrInvalidBootstrapKey
	}

	var created CreatedUser
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Users().CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return fmt.Errorf("count superadmins: %w", err)
		}
		if n > 0 {
			return ErrSuperAdminExists
		}
		created, err = s.createUser(ctx, tx.Users(), in, domain.RoleSuperAdmin)
		return err
	})
	if err != nil {
		return CreatedUser{}, err
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifySuperAdminCreated,
		To:   created.User.Email,
		Data: map[string]string{"name": created.User.Name},
	})
	l.Info("superadmin created", slog.String("user_id", created.User.ID))
	return created, nil
}

// GrantTemporaryAdminAccess gives userID global admin rights for duration.
// A non-positive duration means 24 hours; durations above 30 days are capped.
func (s *AdminService) GrantTemporaryAdminAccess(ctx context.Context, token, userID string, duration time.Duration) (time.Time, error) {
	caller, err := s.Resolver.Authorize(ctx, token, SuperAdmin())
	if err != nil {
		return time.Time{}, err
	}

	duration = ttlOrDefault(duration, DefaultTemporaryAdminDuration)
	if duration > MaxTemporaryAdminDuration {
		duration = MaxTemporaryAdminDuration
	}

	target, err := s.lookupUser(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}

	now := s.now()
	until := now.Add(duration)
	if err := s.Store.Users().SetTemporaryAdminUntil(ctx, target.ID, &until, now); err != nil {
		return time.Time{}, fmt.Errorf("grant temporary admin: %w", err)
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifyTemporaryAdminGrant,
		To:   target.Email,
		Data: map[string]string{"name": target.Name, "until": until.UTC().Format(time.RFC3339)},
	})
	slogx.FromContext(ctx).Info("temporary admin access granted",
		slog.String("user_id", target.ID),
		slog.String("granted_by", caller.User.ID),
		slog.Time("until", until),
	)
	return until, nil
}

// RevokeTemporaryAdminAccess clears any temporary admin access of userID.
func (s *AdminService) RevokeTemporaryAdminAccess(ctx context.Context, token, userID string) error {
	caller, err := s.Resolver.Authorize(ctx, token, SuperAdmin())
	if err != nil {
		return err
	}

	target, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.Store.Users().SetTemporaryAdminUntil(ctx, target.ID, nil, s.now()); err != nil {
		return fmt.Errorf("revoke temporary admin: %w", err)
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifyTemporaryAdminRevoke,
		To:   target.Email,
		Data: map[string]string{"name": target.Name},
	})
	slogx.FromContext(ctx).Info("temporary admin access revoked",
		slog.String("user_id", target.ID),
		slog.String("revoked_by", caller.User.ID),
	)
	return nil
}

// DeactivateUser disables userID and revokes its sessions. Only superadmins
// may deactivate another superadmin, and nobody may deactivate themselves.
func (s *AdminService) DeactivateUser(ctx context.Context, token, userID string) error {
	caller, err := s.Resolver.Authorize(ctx, token, GlobalAdmin())
	if err != nil {
		return err
	}

	target, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}
	if target.ID == caller.User.ID {
		return ErrInvalidInput
	}
	if target.GlobalRole == domain.RoleSuperAdmin && !caller.IsSuperAdmin() {
		return ErrInsufficientPermissions
	}

	now := s.now()
	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetActive(ctx, target.ID, false, now); err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		n, err := tx.Sessions().DeleteUserSessions(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		revoked = n
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user deactivated",
		slog.String("user_id", target.ID),
		slog.String("deactivated_by", caller.User.ID),
		slog.Int64("sessions_revoked", revoked),
	)
	return nil
}

func (s *AdminService) lookupUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *AdminService) createUser(ctx context.Context, users store.Users, in CreateUserInput, role domain.GlobalRole) (CreatedUser, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CreatedUser{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return CreatedUser{}, ErrInvalidInput
	}

	var generated string
	password := in.Password
	if password == "" {
		p, err := cryptox.GeneratePassword()
		if err != nil {
			return CreatedUser{}, err
		}
		password, generated = p, p
	} else if utf8.RuneCountInString(password) < MinPasswordLength {
		return CreatedUser{}, ErrWeakPassword
	}

	hash, err := cryptox.NewPasswordHash(password)
	if err != nil {
		return CreatedUser{}, err
	}

	now := s.now()
	u := domain.User{
		ID:           idx.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        strings.TrimSpace(in.Phone),
		Position:     strings.TrimSpace(in.Position),
		GlobalRole:   role,
		IsActive:     true,
		JoinedAt:     now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return CreatedUser{}, ErrEmailTaken
		}
		return CreatedUser{}, fmt.Errorf("create user: %w", err)
	}
	return CreatedUser{User: u, GeneratedPassword: generated}, nil
}
