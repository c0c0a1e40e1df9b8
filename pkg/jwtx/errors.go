package jwtx

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSecret = errors.New("jwtx: signing secret is not configured")
	ErrInvalidTTL    = errors.New("jwtx: ttl must be positive")

	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrInvalidClaim  = errors.New("jwtx: invalid claims")
	ErrWrongType     = errors.New("jwtx: unexpected token type")
	ErrMissingUserID = errors.New("jwtx: missing user id")
)

// Kind classifies why a token failed verification. Callers treat every kind
// as unauthenticated; the kind exists for logs and metrics.
type Kind string

const (
	KindFormat    Kind = "format"
	KindSignature Kind = "signature"
	KindExpired   Kind = "expired"
	KindClaims    Kind = "claims"
)

// VerifyError is returned by every Verify method.
type VerifyError struct {
	Kind Kind
	Err  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("jwtx: verify failed (%s): %v", e.Kind, e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// Is lets errors.Is match a VerifyError against the sentinel for its kind.
func (e *VerifyError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == KindFormat
	case ErrInvalidSig:
		return e.Kind == KindSignature
	case ErrExpired:
		return e.Kind == KindExpired
	case ErrInvalidClaim:
		return e.Kind == KindClaims
	}
	return false
}

// KindOf returns the verification failure kind of err, or "" when err is not
// a VerifyError.
func KindOf(err error) Kind {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
