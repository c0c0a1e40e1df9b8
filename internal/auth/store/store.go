package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrNestedTx is returned when a transaction is started from a Tx.
	ErrNestedTx = errors.New("store: nested transactions are not supported")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction can never be started from inside another one.
type Store interface {
	Users() Users
	Sessions() Sessions
	PasswordResets() PasswordResets
	Hubs() Hubs
	Memberships() Memberships

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// LoginFailure is the account state after a failed attempt was recorded.
type LoginFailure struct {
	Attempts    int
	LockedUntil *time.Time
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during sign-in. The email is matched lower-cased.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists on a duplicate email.
	CreateUser(ctx context.Context, u domain.User) error

	// CountByRole returns the number of users holding role.
	CountByRole(ctx context.Context, role domain.GlobalRole) (int, error)

	// UpdatePasswordHash sets the stored "<hash>:<salt>" value.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string, now time.Time) error

	// RecordLoginFailure atomically increments failed_login_attempts and, once
	// the new count reaches threshold, sets locked_until to now+lockFor.
	RecordLoginFailure(ctx context.Context, userID string, threshold int, lockFor time.Duration, now time.Time) (LoginFailure, error)

	// RecordLoginSuccess clears the failure counter and lock and sets last_login_at.
	RecordLoginSuccess(ctx context.Context, userID string, now time.Time) error

	// ClearLockout clears the failure counter and lock without touching last_login_at.
	ClearLockout(ctx context.Context, userID string, now time.Time) error

	// SetActive flips is_active.
	SetActive(ctx context.Context, userID string, active bool, now time.Time) error

	// SetTemporaryAdminUntil sets or, with nil, clears temporary admin access.
	SetTemporaryAdminUntil(ctx context.Context, userID string, until *time.Time, now time.Time) error

	// UpdateMFASecret stores a pending TOTP secret and clears mfa_enabled_at.
	UpdateMFASecret(ctx context.Context, userID, secret string, now time.Time) error

	// EnableMFA sets mfa_enabled_at.
	EnableMFA(ctx context.Context, userID string, now time.Time) error

	// DisableMFA clears both the secret and mfa_enabled_at.
	DisableMFA(ctx context.Context, userID string, now time.Time) error
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.AuthSession) error

	// GetSessionByAccessHash looks a session up by access token fingerprint.
	GetSessionByAccessHash(ctx context.Context, hash string) (domain.AuthSession, error)

	// GetSessionByRefreshHash looks a session up by refresh token fingerprint.
	GetSessionByRefreshHash(ctx context.Context, hash string) (domain.AuthSession, error)

	// RotateSession replaces both tokens and expiries of session id, but only
	// while its refresh fingerprint still equals expectedRefreshHash. Returns
	// ErrNotFound when another rotation won the race.
	RotateSession(ctx context.Context, id, expectedRefreshHash string, next domain.AuthSession) error

	// TouchSession bumps last_used_at.
	TouchSession(ctx context.Context, id string, now time.Time) error

	// DeleteSessionByAccessHash removes at most one session. Deleting a missing
	// session is not an error.
	DeleteSessionByAccessHash(ctx context.Context, hash string) error

	// DeleteUserSessions removes every session of a user.
	DeleteUserSessions(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredSessions removes sessions whose access or refresh token
	// expired at or before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type PasswordResets interface {
	// CreateResetToken stores a new reset token.
	CreateResetToken(ctx context.Context, t domain.PasswordResetToken) error

	// GetResetTokenByHash returns a token by fingerprint regardless of state.
	GetResetTokenByHash(ctx context.Context, hash string) (domain.PasswordResetToken, error)

	// MarkResetTokenUsed sets used_at if still unused. Returns ErrNotFound if
	// the token was already consumed.
	MarkResetTokenUsed(ctx context.Context, id string, now time.Time) error

	// DeleteUserResetTokens removes every reset token of a user.
	DeleteUserResetTokens(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredResetTokens removes tokens that expired at or before now.
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)

	// DeleteUsedResetTokens removes consumed tokens created before cutoff.
	DeleteUsedResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Hubs interface {
	CreateHub(ctx context.Context, h domain.Hub) error
	GetHubByID(ctx context.Context, id string) (domain.Hub, error)

	// ListHubs returns all hubs ordered by name.
	ListHubs(ctx context.Context) ([]domain.Hub, error)

	// UpdateHub writes name, description and updated_at.
	UpdateHub(ctx context.Context, h domain.Hub) error

	// DeleteHub cascades to hub_memberships.
	DeleteHub(ctx context.Context, id string) error
}

type Memberships interface {
	// CreateMembership inserts a membership. Returns ErrAlreadyExists when the
	// user already has one for the hub.
	CreateMembership(ctx context.Context, m domain.HubMembership) error

	GetMembershipByID(ctx context.Context, id string) (domain.HubMembership, error)

	// ListApprovedByUser returns only approved memberships of a user.
	ListApprovedByUser(ctx context.Context, userID string) ([]domain.HubMembership, error)

	// ListByHub returns every membership of a hub, any status.
	ListByHub(ctx context.Context, hubID string) ([]domain.HubMembership, error)

	UpdateMembershipStatus(ctx context.Context, id string, status domain.MembershipStatus, now time.Time) error
	UpdateMembershipRole(ctx context.Context, id string, role domain.HubRole, now time.Time) error
}
