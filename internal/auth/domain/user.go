package domain

import "time"

// GlobalRole is a user's site-wide role.
type GlobalRole string

const (
	RoleMember     GlobalRole = "member"
	RoleAdmin      GlobalRole = "admin"
	RoleSuperAdmin GlobalRole = "superadmin"
)

// Valid reports whether r is a known global role.
func (r GlobalRole) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID                  string
	Email               string // unique, lower-cased
	PasswordHash        string // "<hash>:<salt>", PBKDF2-SHA256
	Name                string
	Phone               string
	Bio                 string
	Position            string
	GlobalRole          GlobalRole
	TemporaryAdminUntil *time.Time
	IsActive            bool
	EmailVerified       bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	MFASecret           *string    // TOTP secret (base32), set on enrollment
	MFAEnabledAt        *time.Time // set once enrollment is confirmed
	JoinedAt            time.Time
	LastLoginAt         *time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked at now.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// MFAEnabled reports whether TOTP is required at sign-in.
func (u User) MFAEnabled() bool {
	return u.MFAEnabledAt != nil && u.MFASecret != nil
}
