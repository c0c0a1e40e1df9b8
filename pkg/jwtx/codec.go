package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Defaults for the fixed issuer and audience claims.
const (
	DefaultIssuer   = "hubsite-auth"
	DefaultAudience = "hubsite"
)

// Codec signs and verifies HS256 tokens with a single shared secret.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
	parser   *jwt.Parser
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer overrides the "iss" claim issued and required.
func WithIssuer(iss string) Option {
	return func(c *Codec) { c.issuer = iss }
}

// WithAudience overrides the "aud" claim issued and required.
func WithAudience(aud string) Option {
	return func(c *Codec) { c.audience = aud }
}

// WithClock sets the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a codec for secret. An empty secret is a configuration
// error and returns ErrMissingSecret.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	c := &Codec{
		secret:   []byte(secret),
		issuer:   DefaultIssuer,
		audience: DefaultAudience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// Issue mints a token of the given type for userID that expires after ttl.
// It returns the compact token and its expiry as encoded in the payload.
// NumericDate holds whole seconds, so the expiry is rounded up: a token is
// never rejected before now+ttl and lives less than a second longer.
func (c *Codec) Issue(userID string, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, ErrInvalidTTL
	}
	if userID == "" {
		return "", time.Time{}, ErrMissingUserID
	}

	now := c.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
			ID:        NewJTI(),
		},
		UserID:  userID,
		Type:    typ,
		Version: ClaimsVersion,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

func ceilSecond(t time.Time) time.Time {
	if whole := t.Truncate(time.Second); !whole.Equal(t) {
		return whole.Add(time.Second)
	}
	return t
}

// IssueAccess mints an access token.
func (c *Codec) IssueAccess(userID string, ttl time.Duration) (string, time.Time, error) {
	return c.Issue(userID, TokenTypeAccess, ttl)
}

// IssueRefresh mints a refresh token.
func (c *Codec) IssueRefresh(userID string, ttl time.Duration) (string, time.Time, error) {
	return c.Issue(userID, TokenTypeRefresh, ttl)
}

// Verify checks the structure, signature, expiry and claims of token. A token
// whose expiry equals the current time is already expired. Every failure is a
// *VerifyError.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

// VerifyAccess verifies token and requires it to be an access token.
func (c *Codec) VerifyAccess(token string) (*Claims, error) {
	return c.verifyType(token, TokenTypeAccess)
}

// VerifyRefresh verifies token and requires it to be a refresh token.
func (c *Codec) VerifyRefresh(token string) (*Claims, error) {
	return c.verifyType(token, TokenTypeRefresh)
}

func (c *Codec) verifyType(token string, want TokenType) (*Claims, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, &VerifyError{Kind: KindClaims, Err: ErrWrongType}
	}
	return claims, nil
}

// classify maps golang-jwt errors onto verification kinds.
func classify(err error) *VerifyError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerifyError{Kind: KindFormat, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &VerifyError{Kind: KindSignature, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerifyError{Kind: KindExpired, Err: err}
	default:
		return &VerifyError{Kind: KindClaims, Err: err}
	}
}
