package domain

import "time"

// AuthSession is one signed-in device. Tokens are stored as fingerprints and
// both are replaced in place on every refresh.
type AuthSession struct {
	ID               string
	UserID           string
	AccessTokenHash  string // base64url SHA-256 of the access token
	RefreshTokenHash string // base64url SHA-256 of the refresh token
	DeviceInfo       string
	ExpiresAt        time.Time // access token expiry
	RefreshExpiresAt time.Time
	LastUsedAt       time.Time
	CreatedAt        time.Time
}

// PasswordResetToken is a single-use credential for setting a new password.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
