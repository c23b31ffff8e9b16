package domain

import "time"

// RefreshTokenRecord is the server side half of a refresh token. A
// refresh token is only honoured while its record exists; deleting the
// record revokes the token regardless of its cryptographic validity.
type RefreshTokenRecord struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// TokenPair carries a freshly minted access/refresh token set back to
// the client.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}
