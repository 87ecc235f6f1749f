package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including
// the failed-login lockout counter.
type UserStore interface {
	// Create saves a new user to the store, hashing the plaintext
	// password before storage.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// RecordLoginFailure increments the user's failed-login counter and,
	// when the configured threshold is reached, sets the lockout
	// timestamp. Increment and threshold check execute as a single
	// atomic statement against the user row.
	// Returns ErrUserNotFound if the user does not exist.
	RecordLoginFailure(ctx context.Context, id uuid.UUID) error

	// ResetLoginFailures clears the failed-login counter and lockout
	// timestamp after a successful authentication.
	// Returns ErrUserNotFound if the user does not exist.
	ResetLoginFailures(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
