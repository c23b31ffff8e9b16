package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Short access tokens bound the exposure window of a
// stolen bearer credential; refresh tokens live longer but are revocable
// through their store record.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken covers every verification failure: malformed input,
	// bad signature, wrong issuer, expiry. Callers must not be able to tell
	// a forged token from a revoked one.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrMissingSecret = errors.New("jwtx: signing secret must not be empty")
	ErrSharedSecret  = errors.New("jwtx: access and refresh secrets must differ")
)

// Claims are the claims carried by both token kinds. Access tokens use only
// the registered set; refresh tokens additionally carry the id of their
// store record so revocation can be checked server-side.
type Claims struct {
	jwt.RegisteredClaims

	// TokenID links a refresh token to its persisted record. Empty for
	// access tokens.
	TokenID string `json:"tokenId,omitempty"`
}

func newClaims(issuer, subject string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
