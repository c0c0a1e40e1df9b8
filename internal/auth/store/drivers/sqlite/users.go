package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return mapConstraint(r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                  u.ID,
		Email:               normalizeEmail(u.Email),
		PasswordHash:        u.PasswordHash,
		Name:                u.Name,
		Phone:               u.Phone,
		Bio:                 u.Bio,
		Position:            u.Position,
		GlobalRole:          string(u.GlobalRole),
		TemporaryAdminUntil: mapOptionalMillis(u.TemporaryAdminUntil),
		IsActive:            boolToInt(u.IsActive),
		EmailVerified:       boolToInt(u.EmailVerified),
		FailedLoginAttempts: int64(u.FailedLoginAttempts),
		LockedUntil:         mapOptionalMillis(u.LockedUntil),
		JoinedAt:            toMillis(u.JoinedAt),
		UpdatedAt:           toMillis(u.UpdatedAt),
	}))
}

func (r *usersRepo) CountByRole(ctx context.Context, role domain.GlobalRole) (int, error) {
	n, err := r.q.CountUsersByRole(ctx, string(role))
	return int(n), err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string, now time.Time) error {
	return expectOne(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: passwordHash,
		UpdatedAt:    toMillis(now),
		ID:           userID,
	}))
}

func (r *usersRepo) RecordLoginFailure(
	ctx context.Context,
	userID string,
	threshold int,
	lockFor time.Duration,
	now time.Time,
) (store.LoginFailure, error) {
	row, err := r.q.RecordLoginFailure(ctx, gen.RecordLoginFailureParams{
		Threshold: int64(threshold),
		LockUntil: toMillis(now.Add(lockFor)),
		UpdatedAt: toMillis(now),
		ID:        userID,
	})
	if err != nil {
		return store.LoginFailure{}, mapNotFound(err)
	}
	return store.LoginFailure{
		Attempts:    int(row.FailedLoginAttempts),
		LockedUntil: mapNullMillis(row.LockedUntil),
	}, nil
}

func (r *usersRepo) RecordLoginSuccess(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.q.RecordLoginSuccess(ctx, gen.RecordLoginSuccessParams{
		LastLoginAt: mapOptionalMillis(&now),
		UpdatedAt:   toMillis(now),
		ID:          userID,
	}))
}

func (r *usersRepo) ClearLockout(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.q.ClearUserLockout(ctx, gen.ClearUserLockoutParams{
		UpdatedAt: toMillis(now),
		ID:        userID,
	}))
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool, now time.Time) error {
	return expectOne(r.q.SetUserActive(ctx, gen.SetUserActiveParams{
		IsActive:  boolToInt(active),
		UpdatedAt: toMillis(now),
		ID:        userID,
	}))
}

func (r *usersRepo) SetTemporaryAdminUntil(ctx context.Context, userID string, until *time.Time, now time.Time) error {
	return expectOne(r.q.SetUserTemporaryAdminUntil(ctx, gen.SetUserTemporaryAdminUntilParams{
		TemporaryAdminUntil: mapOptionalMillis(until),
		UpdatedAt:           toMillis(now),
		ID:                  userID,
	}))
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string, now time.Time) error {
	return expectOne(r.q.UpdateUserMFASecret(ctx, gen.UpdateUserMFASecretParams{
		MfaSecret: sql.NullString{String: secret, Valid: true},
		UpdatedAt: toMillis(now),
		ID:        userID,
	}))
}

// EnableMFA only succeeds once a secret has been stored.
func (r *usersRepo) EnableMFA(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.q.EnableUserMFA(ctx, gen.EnableUserMFAParams{
		MfaEnabledAt: mapOptionalMillis(&now),
		UpdatedAt:    toMillis(now),
		ID:           userID,
	}))
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.q.DisableUserMFA(ctx, gen.DisableUserMFAParams{
		UpdatedAt: toMillis(now),
		ID:        userID,
	}))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:                  row.ID,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		Name:                row.Name,
		Phone:               row.Phone,
		Bio:                 row.Bio,
		Position:            row.Position,
		GlobalRole:          domain.GlobalRole(row.GlobalRole),
		TemporaryAdminUntil: mapNullMillis(row.TemporaryAdminUntil),
		IsActive:            row.IsActive != 0,
		EmailVerified:       row.EmailVerified != 0,
		FailedLoginAttempts: int(row.FailedLoginAttempts),
		LockedUntil:         mapNullMillis(row.LockedUntil),
		MFASecret:           mapNullStringPtr(row.MfaSecret),
		MFAEnabledAt:        mapNullMillis(row.MfaEnabledAt),
		JoinedAt:            fromMillis(row.JoinedAt),
		LastLoginAt:         mapNullMillis(row.LastLoginAt),
		UpdatedAt:           fromMillis(row.UpdatedAt),
	}
}
