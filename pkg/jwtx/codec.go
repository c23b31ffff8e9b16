package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the fixed iss claim shared by access and refresh tokens. The two
// token kinds are told apart by their signing key, not their issuer.
const Issuer = "blogger-hub"

// Codec mints and verifies the two token kinds. Access and refresh tokens use
// independent HS512 secrets so compromise of one cannot forge the other.
type Codec struct {
	issuer     string
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration // defaults to DefaultAccessTokenTTL
	RefreshTTL    time.Duration // defaults to DefaultRefreshTokenTTL

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func NewCodec(cfg CodecConfig) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSharedSecret
	}

	c := &Codec{
		issuer:     Issuer,
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if c.accessTTL == 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL == 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// MintAccessToken signs a short-lived access token for the given user.
func (c *Codec) MintAccessToken(userID string) (string, error) {
	claims := newClaims(c.issuer, userID, c.accessTTL, c.now())
	return c.sign(claims, c.accessKey)
}

// MintRefreshToken signs a long-lived refresh token for the given user,
// bound to the store record identified by tokenID.
func (c *Codec) MintRefreshToken(userID, tokenID string) (string, error) {
	claims := newClaims(c.issuer, userID, c.refreshTTL, c.now())
	claims.TokenID = tokenID
	return c.sign(claims, c.refreshKey)
}

// VerifyAccessToken reports whether the token carries a valid access
// signature, the expected issuer, and has not expired. It never returns an
// error; any failure is simply false.
func (c *Codec) VerifyAccessToken(token string) bool {
	_, err := c.decode(token, c.accessKey)
	return err == nil
}

// VerifyRefreshToken is VerifyAccessToken for the refresh key. Note that a
// true result says nothing about whether the token's store record still
// exists; callers own that half of the check.
func (c *Codec) VerifyRefreshToken(token string) bool {
	_, err := c.decode(token, c.refreshKey)
	return err == nil
}

// SubjectOfAccessToken returns the user id an access token was minted for.
// Verification is repeated internally; a prior VerifyAccessToken call buys
// no trust here.
func (c *Codec) SubjectOfAccessToken(token string) (string, error) {
	claims, err := c.decode(token, c.accessKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// SubjectOfRefreshToken returns the user id a refresh token was minted for.
func (c *Codec) SubjectOfRefreshToken(token string) (string, error) {
	claims, err := c.decode(token, c.refreshKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// TokenRecordIDOfRefreshToken returns the id of the store record a refresh
// token is bound to.
func (c *Codec) TokenRecordIDOfRefreshToken(token string) (string, error) {
	claims, err := c.decode(token, c.refreshKey)
	if err != nil {
		return "", err
	}
	if claims.TokenID == "" {
		return "", ErrInvalidToken
	}
	return claims.TokenID, nil
}

func (c *Codec) sign(claims Claims, key []byte) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

func (c *Codec) decode(token string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
