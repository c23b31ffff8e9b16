package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lari/bloggerhub/internal/auth/domain"
	"github.com/lari/bloggerhub/internal/auth/store"
	"github.com/lari/bloggerhub/pkg/cryptox"
	"github.com/lari/bloggerhub/pkg/idx"
	"github.com/lari/bloggerhub/pkg/jwtx"
	"github.com/lari/bloggerhub/pkg/slogx"
)

var (
	ErrAuthenticationFailed = errors.New("authentication_failed")
	ErrInvalidToken         = errors.New("invalid_token")
	ErrDuplicateUsername    = errors.New("duplicate_username")
	ErrDuplicateEmail       = errors.New("duplicate_email")
	ErrUserNotFound         = errors.New("user_not_found")
)

// AuthService implements the credential and token lifecycle flows. A
// refresh token is honoured only when it passes the double check:
// cryptographically valid AND its server side record still exists.
type AuthService struct {
	Codec *jwtx.Codec
	Store store.Store
}

// Login verifies the username/password pair and, on success, opens a new
// session: a fresh refresh token record plus a signed token pair. Both
// an unknown username and a wrong password collapse into
// ErrAuthenticationFailed so the response never leaks which half failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed, unknown username", slog.String("username", username))
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed, password mismatch", slog.String("user_id", user.ID))
		return nil, ErrAuthenticationFailed
	}

	return s.openSession(ctx, user.ID)
}

// SignupParams carries the caller supplied fields for a new account.
// Optional profile fields may be empty.
type SignupParams struct {
	Username       string
	Email          string
	Password       string
	Bio            string
	ProfilePicture string
}

// Signup registers a new account and immediately opens its first
// session, so a fresh signup needs no follow-up login. Uniqueness is
// checked before anything is written; a duplicate request leaves no
// partial state behind. New accounts start unverified on the free tier.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	username := strings.TrimSpace(p.Username)
	email := strings.TrimSpace(p.Email)

	taken, err := s.Store.Users().ExistsByUsername(ctx, username)
	if err != nil {
		return domain.User{}, nil, err
	}
	if taken {
		return domain.User{}, nil, ErrDuplicateUsername
	}

	taken, err = s.Store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return domain.User{}, nil, err
	}
	if taken {
		return domain.User{}, nil, ErrDuplicateEmail
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		Bio:            strings.TrimSpace(p.Bio),
		ProfilePicture: strings.TrimSpace(p.ProfilePicture),
		Verified:       false,
		Roles:          []domain.Role{domain.RoleFree},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent signup; the unique indexes are
		// the last line of defence.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, nil, ErrDuplicateUsername
		}
		return domain.User{}, nil, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("username", user.Username))

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return domain.User{}, nil, err
	}
	return user, pair, nil
}

// Logout revokes the session behind the presented refresh token by
// deleting its record. The token must pass the same double check as
// every other flow, so an already revoked token is rejected exactly
// like a forged one.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, recordID, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.Store.RefreshTokens().DeleteByID(ctx, recordID)
}

// LogoutAll revokes every session the token's owner holds, across all
// devices. The presented token must still be live: an already revoked
// token cannot take the rest of the sessions with it.
func (s *AuthService) LogoutAll(ctx context.Context, refreshToken string) error {
	userID, _, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.Store.RefreshTokens().DeleteAllByOwner(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("all sessions revoked", slog.String("user_id", userID))
	return nil
}

// RefreshAccessToken mints a new access token for the owner of a live
// refresh token. The refresh token itself is left untouched and comes
// back unchanged in the pair. A subject whose account has since been
// deleted gets the same ErrInvalidToken as a revoked token; this is a
// consistency fault, not a server error.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, _, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	access, err := s.Codec.MintAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refreshToken,
	}, nil
}

// RotateRefreshToken exchanges a live refresh token for a brand new
// pair. The old record is deleted before the new one is created, inside
// one transaction: if anything fails the rotation rolls back whole, and
// a rotated-away token can never resurface.
func (s *AuthService) RotateRefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, recordID, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().DeleteByID(ctx, recordID); err != nil {
			return err
		}

		rec, err := tx.RefreshTokens().CreateRefreshToken(ctx, userID)
		if err != nil {
			return err
		}

		access, err := s.Codec.MintAccessToken(userID)
		if err != nil {
			return err
		}
		refresh, err := s.Codec.MintRefreshToken(userID, rec.ID)
		if err != nil {
			return err
		}

		pair = &domain.TokenPair{
			UserID:       userID,
			AccessToken:  access,
			RefreshToken: refresh,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// checkRefreshToken performs the double check every token flow relies
// on: the signature and claims must verify, and the record named by the
// tokenId claim must still exist. Either failure is ErrInvalidToken;
// callers cannot tell a forged token from a revoked one.
func (s *AuthService) checkRefreshToken(ctx context.Context, refreshToken string) (userID, recordID string, err error) {
	userID, err = s.Codec.SubjectOfRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	recordID, err = s.Codec.TokenRecordIDOfRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	// A tokenId that isn't even a well-formed id can't name a record.
	if _, err := idx.Parse(recordID); err != nil {
		return "", "", ErrInvalidToken
	}

	alive, err := s.Store.RefreshTokens().ExistsByID(ctx, recordID)
	if err != nil {
		return "", "", err
	}
	if !alive {
		return "", "", ErrInvalidToken
	}
	return userID, recordID, nil
}

// openSession creates a refresh token record and mints the token pair
// around it. The record is created first so its id can be embedded in
// the signed refresh token.
func (s *AuthService) openSession(ctx context.Context, userID string) (*domain.TokenPair, error) {
	rec, err := s.Store.RefreshTokens().CreateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.Codec.MintAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.MintRefreshToken(userID, rec.ID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
