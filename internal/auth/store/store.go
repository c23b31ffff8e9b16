package store

import (
	"context"
	"errors"

	"github.com/lari/bloggerhub/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh
	// rotation). The caller MUST call Commit() or Rollback() on the
	// returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ExistsByUsername reports whether any user owns the username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether any user registered the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type RefreshTokens interface {
	// CreateRefreshToken inserts a record for ownerID and returns it. The
	// record id ends up inside the signed refresh token, so creation
	// happens before minting.
	CreateRefreshToken(ctx context.Context, ownerID string) (domain.RefreshTokenRecord, error)

	// ExistsByID reports whether the record is still live. A missing
	// record means the token was revoked.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// DeleteByID revokes a single token. Deleting an already-deleted
	// record is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAllByOwner revokes every token the user holds, across all
	// devices.
	DeleteAllByOwner(ctx context.Context, ownerID string) error
}
