package sqlite

import (
	"context"

	"github.com/lari/bloggerhub/internal/auth/domain"
	"github.com/lari/bloggerhub/pkg/idx"
)

type refreshTokensRepo struct {
	q querier
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, ownerID string) (domain.RefreshTokenRecord, error) {
	// The record id carries its creation time; store the same instant.
	id := idx.New()
	rec := domain.RefreshTokenRecord{
		ID:        id.String(),
		UserID:    ownerID,
		CreatedAt: id.Time(),
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, created_at) VALUES (?, ?, ?)`,
		rec.ID, rec.UserID, rec.CreatedAt,
	)
	if err != nil {
		return domain.RefreshTokenRecord{}, err
	}
	return rec, nil
}

func (r *refreshTokensRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM refresh_tokens WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *refreshTokensRepo) DeleteByID(ctx context.Context, id string) error {
	// Deleting a missing row is fine; revocation is idempotent.
	_, err := r.q.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = ?`, id)
	return err
}

func (r *refreshTokensRepo) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, ownerID)
	return err
}
