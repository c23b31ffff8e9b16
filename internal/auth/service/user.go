package service

import (
	"context"
	"errors"

	"github.com/lari/bloggerhub/internal/auth/domain"
	"github.com/lari/bloggerhub/internal/auth/store"
	"github.com/lari/bloggerhub/pkg/httpx"
)

// UserService exposes the read side of the account model.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// ResolveIdentity looks up the request identity for a verified access
// token subject. It satisfies httpx.IdentityResolver; a missing user
// surfaces as ErrUserNotFound, which the middleware treats as
// "proceed unauthenticated" rather than a hard failure.
func (s *UserService) ResolveIdentity(ctx context.Context, userID string) (httpx.Identity, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Authorities: user.Authorities(),
	}, nil
}
