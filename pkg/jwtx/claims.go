package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes.
const (
	// DefaultAccessTokenTTL is the lifetime of access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the lifetime of refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// ClaimsVersion is the only payload version this package issues or accepts.
const ClaimsVersion = 1

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the closed payload schema for every token issued by the service.
// New fields must bump ClaimsVersion.
type Claims struct {
	jwt.RegisteredClaims

	// UserID of the token owner. Mirrors "sub".
	UserID string `json:"userId"`

	// Type is either "access" or "refresh".
	Type TokenType `json:"type"`

	// Version of the claim schema.
	Version int `json:"ver"`
}

// Validate implements jwt.ClaimsValidator. It runs after the registered
// claims (exp, iss, aud) have been checked.
func (c *Claims) Validate() error {
	if c.UserID == "" || c.Subject != c.UserID {
		return ErrInvalidClaim
	}
	if c.Type != TokenTypeAccess && c.Type != TokenTypeRefresh {
		return ErrInvalidClaim
	}
	if c.Version != ClaimsVersion {
		return ErrInvalidClaim
	}
	if c.ID == "" || c.IssuedAt == nil {
		return ErrInvalidClaim
	}
	return nil
}

// ExpiresAtTime returns the expiry as a time.Time, or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// minted for the same user within the same second still differ because of it.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
