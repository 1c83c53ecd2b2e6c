package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// DefaultByteLength provides 128 bits of entropy, enough to make collisions
// astronomically unlikely even across billions of issued tokens.
const DefaultByteLength = 16

// DefaultMaxAttempts bounds the local collision check in GenerateUnique.
const DefaultMaxAttempts = 5

// Generate returns a URL-safe random token with at least byteLength bytes of
// entropy read from crypto/rand. Non-positive lengths fall back to
// DefaultByteLength.
func Generate(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultByteLength
	}
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ExistsFunc reports whether a candidate token is already taken. It is the
// caller's view into its store and is treated as best-effort only.
type ExistsFunc func(ctx context.Context, token string) (bool, error)

// GenerateUnique produces a token that passes the exists check, retrying up
// to DefaultMaxAttempts times. If every candidate collides, the last one is
// returned anyway: the store's uniqueness constraint is the authoritative
// guard, the local check is only an optimization that avoids a doomed insert.
// It never blocks beyond the bounded attempts.
func GenerateUnique(ctx context.Context, exists ExistsFunc, byteLength int) (string, error) {
	var candidate string
	var err error
	for range DefaultMaxAttempts {
		candidate, err = Generate(byteLength)
		if err != nil {
			return "", err
		}
		if exists == nil {
			return candidate, nil
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return candidate, nil
}
