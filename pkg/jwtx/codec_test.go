package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()

	c, err := NewCodec(CodecConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Now:           now,
	})
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsBadSecrets(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(CodecConfig{AccessSecret: "", RefreshSecret: "x"})
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewCodec(CodecConfig{AccessSecret: "x", RefreshSecret: ""})
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewCodec(CodecConfig{AccessSecret: "same", RefreshSecret: "same"})
	require.ErrorIs(t, err, ErrSharedSecret)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	token, err := c.MintAccessToken("01USER")
	require.NoError(t, err)

	require.True(t, c.VerifyAccessToken(token))

	subject, err := c.SubjectOfAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "01USER", subject)
}

func TestRefreshTokenCarriesRecordID(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	token, err := c.MintRefreshToken("01USER", "01RECORD")
	require.NoError(t, err)

	require.True(t, c.VerifyRefreshToken(token))

	subject, err := c.SubjectOfRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "01USER", subject)

	recordID, err := c.TokenRecordIDOfRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "01RECORD", recordID)
}

func TestKeySeparation(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	access, err := c.MintAccessToken("01USER")
	require.NoError(t, err)
	refresh, err := c.MintRefreshToken("01USER", "01RECORD")
	require.NoError(t, err)

	// A token minted under one key must fail verification under the other.
	require.False(t, c.VerifyRefreshToken(access))
	require.False(t, c.VerifyAccessToken(refresh))

	_, err = c.SubjectOfAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyFailsAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return clock })

	token, err := c.MintAccessToken("01USER")
	require.NoError(t, err)
	require.True(t, c.VerifyAccessToken(token))

	// Advance the clock past the access TTL.
	clock = clock.Add(16 * time.Minute)
	require.False(t, c.VerifyAccessToken(token))

	_, err = c.SubjectOfAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbageWithoutPanicking(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	for _, bad := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..", "x.y"} {
		require.False(t, c.VerifyAccessToken(bad))
		require.False(t, c.VerifyRefreshToken(bad))

		_, err := c.SubjectOfAccessToken(bad)
		require.ErrorIs(t, err, ErrInvalidToken)
		_, err = c.TokenRecordIDOfRefreshToken(bad)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	other, err := NewCodec(CodecConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
	})
	require.NoError(t, err)
	other.issuer = "someone-else"

	token, err := other.MintAccessToken("01USER")
	require.NoError(t, err)

	// Same key, wrong issuer.
	require.False(t, c.VerifyAccessToken(token))
}

func TestRefreshTokenWithoutRecordIDIsRejected(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t, nil)

	// Mint a refresh token with an empty record id; extraction must fail
	// even though the signature checks out.
	token, err := c.MintRefreshToken("01USER", "")
	require.NoError(t, err)
	require.True(t, c.VerifyRefreshToken(token))

	_, err = c.TokenRecordIDOfRefreshToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
