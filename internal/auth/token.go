// Package auth provides password hashing and session token utilities.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Token format: st_{secret}
// Example: st_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretLen is the secret length (hex encoded 32 bytes).
	TokenSecretLen = 64
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^st_[a-f0-9]{64}$`)
)

// GenerateSessionToken creates a new opaque session token.
// The token is shown to the client once and only its hash is used as
// the Redis session key.
func GenerateSessionToken() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	return "st_" + hex.EncodeToString(secretBytes), nil
}

// ValidateSessionToken checks a token against the expected format.
// This rejects malformed tokens before any Redis lookup.
func ValidateSessionToken(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}
