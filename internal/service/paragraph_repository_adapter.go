package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/store"
)

// ParagraphRepositoryAdapter adapts a store.ParagraphStore to the
// service-layer ParagraphRepository interface, carrying the connection
// needed for transaction management.
type ParagraphRepositoryAdapter struct {
	paragraphStore store.ParagraphStore
	db             *sql.DB
}

// NewParagraphRepositoryAdapter creates a new adapter around the given
// store and connection.
func NewParagraphRepositoryAdapter(
	paragraphStore store.ParagraphStore,
	db *sql.DB,
) *ParagraphRepositoryAdapter {
	return &ParagraphRepositoryAdapter{
		paragraphStore: paragraphStore,
		db:             db,
	}
}

// Ensure ParagraphRepositoryAdapter implements service.ParagraphRepository
var _ ParagraphRepository = (*ParagraphRepositoryAdapter)(nil)

// Create saves a new paragraph to the store
func (a *ParagraphRepositoryAdapter) Create(ctx context.Context, paragraph *domain.Paragraph) error {
	return a.paragraphStore.Create(ctx, paragraph)
}

// GetByID retrieves a paragraph by its unique ID
func (a *ParagraphRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	return a.paragraphStore.GetByID(ctx, id)
}

// WithTx returns a new repository instance bound to the transaction
func (a *ParagraphRepositoryAdapter) WithTx(tx *sql.Tx) ParagraphRepository {
	return &ParagraphRepositoryAdapter{
		paragraphStore: a.paragraphStore.WithTx(tx),
		db:             a.db,
	}
}

// DB returns the underlying database connection
func (a *ParagraphRepositoryAdapter) DB() *sql.DB {
	return a.db
}
