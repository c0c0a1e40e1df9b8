package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for password hashing.
const (
	iterations = 100_000 // PBKDF2-SHA256 rounds
	keyLength  = 32      // Length of the derived key
	saltLength = 32      // Random bytes in a generated salt, hex encoded
)

// passwordHashSeparator joins the derived key and the salt in the stored form.
const passwordHashSeparator = ":"

// ErrMalformedPasswordHash is returned when a stored password hash is not in
// "<hash>:<salt>" form.
var ErrMalformedPasswordHash = errors.New("cryptox: malformed password hash")

// HashPassword derives a PBKDF2-SHA256 key for password. When salt is empty a
// new random salt is generated. The derived key is returned base64 encoded
// together with the salt that was used.
func HashPassword(password, salt string) (hash string, usedSalt string, err error) {
	if salt == "" {
		buf := make([]byte, saltLength)
		if _, err := rand.Read(buf); err != nil {
			return "", "", fmt.Errorf("failed to generate salt: %w", err)
		}
		salt = hex.EncodeToString(buf)
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key), salt, nil
}

// VerifyPassword re-derives the key for password and compares it against hash
// in constant time. Decoding problems are logged and reported as a mismatch.
func VerifyPassword(password, hash, salt string) bool {
	expected, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		slog.Warn("password hash is not valid base64", slog.Any("err", err))
		return false
	}
	if salt == "" || len(expected) == 0 {
		slog.Warn("password hash or salt is empty")
		return false
	}

	computed := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// EncodePasswordHash returns the persisted "<hash>:<salt>" form.
func EncodePasswordHash(hash, salt string) string {
	return hash + passwordHashSeparator + salt
}

// SplitPasswordHash splits a stored "<hash>:<salt>" value.
func SplitPasswordHash(stored string) (hash, salt string, err error) {
	hash, salt, ok := strings.Cut(stored, passwordHashSeparator)
	if !ok || hash == "" || salt == "" {
		return "", "", ErrMalformedPasswordHash
	}
	return hash, salt, nil
}

// NewPasswordHash hashes password with a fresh salt and returns the stored form.
func NewPasswordHash(password string) (string, error) {
	hash, salt, err := HashPassword(password, "")
	if err != nil {
		return "", err
	}
	return EncodePasswordHash(hash, salt), nil
}

// VerifyEncodedPassword checks password against a stored "<hash>:<salt>" value.
// A malformed stored value yields ErrMalformedPasswordHash.
func VerifyEncodedPassword(password, stored string) (bool, error) {
	hash, salt, err := SplitPasswordHash(stored)
	if err != nil {
		return false, err
	}
	return VerifyPassword(password, hash, salt), nil
}

// GeneratePassword returns a random 12 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
