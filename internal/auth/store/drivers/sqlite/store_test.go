package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lari/bloggerhub/internal/auth/domain"
	"github.com/lari/bloggerhub/internal/auth/store"
	"github.com/lari/bloggerhub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(username, email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "argon2:dummy",
		Roles:        []domain.Role{domain.RoleFree},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, alice))

	t.Run("get by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, alice.Username, got.Username)
		require.Equal(t, alice.Email, got.Email)
		require.Equal(t, []domain.Role{domain.RoleFree}, got.Roles)
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByUsername(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("existence checks", func(t *testing.T) {
		exists, err := s.Users().ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = s.Users().ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = s.Users().ExistsByUsername(ctx, "bob")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("duplicate username maps to ErrAlreadyExists", func(t *testing.T) {
		dup := newTestUser("alice", "other@example.com")
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		dup := newTestUser("alice2", "alice@example.com")
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("list newest first", func(t *testing.T) {
		bob := newTestUser("bob", "bob@example.com")
		bob.CreatedAt = alice.CreatedAt.Add(time.Second)
		bob.UpdatedAt = bob.CreatedAt
		require.NoError(t, s.Users().CreateUser(ctx, bob))

		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "bob", users[0].Username)
		require.Equal(t, "alice", users[1].Username)
	})
}

func TestRefreshTokensRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	owner := newTestUser("carol", "carol@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, owner))

	t.Run("create and exists", func(t *testing.T) {
		rec, err := s.RefreshTokens().CreateRefreshToken(ctx, owner.ID)
		require.NoError(t, err)
		require.NotEmpty(t, rec.ID)
		require.Equal(t, owner.ID, rec.UserID)

		alive, err := s.RefreshTokens().ExistsByID(ctx, rec.ID)
		require.NoError(t, err)
		require.True(t, alive)
	})

	t.Run("delete by id is idempotent", func(t *testing.T) {
		rec, err := s.RefreshTokens().CreateRefreshToken(ctx, owner.ID)
		require.NoError(t, err)

		require.NoError(t, s.RefreshTokens().DeleteByID(ctx, rec.ID))

		alive, err := s.RefreshTokens().ExistsByID(ctx, rec.ID)
		require.NoError(t, err)
		require.False(t, alive)

		// second delete of the same record is not an error
		require.NoError(t, s.RefreshTokens().DeleteByID(ctx, rec.ID))
	})

	t.Run("delete all by owner", func(t *testing.T) {
		other := newTestUser("dave", "dave@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, other))

		r1, err := s.RefreshTokens().CreateRefreshToken(ctx, owner.ID)
		require.NoError(t, err)
		r2, err := s.RefreshTokens().CreateRefreshToken(ctx, owner.ID)
		require.NoError(t, err)
		r3, err := s.RefreshTokens().CreateRefreshToken(ctx, other.ID)
		require.NoError(t, err)

		require.NoError(t, s.RefreshTokens().DeleteAllByOwner(ctx, owner.ID))

		for _, id := range []string{r1.ID, r2.ID} {
			alive, err := s.RefreshTokens().ExistsByID(ctx, id)
			require.NoError(t, err)
			require.False(t, alive)
		}

		alive, err := s.RefreshTokens().ExistsByID(ctx, r3.ID)
		require.NoError(t, err)
		require.True(t, alive)
	})

	t.Run("deleting a user cascades to tokens", func(t *testing.T) {
		victim := newTestUser("erin", "erin@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, victim))

		rec, err := s.RefreshTokens().CreateRefreshToken(ctx, victim.ID)
		require.NoError(t, err)

		// account removal is not a store operation yet; exercise the
		// schema's ON DELETE CASCADE directly
		_, err = s.db.ExecContext(ctx, `DELETE FROM blog_users WHERE id = ?`, victim.ID)
		require.NoError(t, err)

		alive, err := s.RefreshTokens().ExistsByID(ctx, rec.ID)
		require.NoError(t, err)
		require.False(t, alive)
	})
}

func TestWithTxRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	owner := newTestUser("frank", "frank@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, owner))

	var created string
	err := s.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().CreateRefreshToken(ctx, owner.ID)
		if err != nil {
			return err
		}
		created = rec.ID
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	alive, err := s.RefreshTokens().ExistsByID(ctx, created)
	require.NoError(t, err)
	require.False(t, alive)
}
