package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
)

// ParagraphStore defines the interface for paragraph data persistence.
// Paragraphs are create-only: content is never updated after creation.
type ParagraphStore interface {
	// Create saves a new paragraph to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, paragraph *domain.Paragraph) error

	// GetByID retrieves a paragraph by its unique ID.
	// Returns ErrParagraphNotFound if the paragraph does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error)

	// GetByIDForUpdate retrieves a paragraph and acquires an exclusive
	// row lock on it for the duration of the enclosing transaction.
	// It must be called on a transactional store (WithTx); callers use it
	// to serialize index recomputations for the same paragraph.
	// Returns ErrParagraphNotFound if the paragraph does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error)

	// WithTx returns a new ParagraphStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ParagraphStore
}
