package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/platform/logger"
	"github.com/parafreq/parafreq-api/internal/store"
)

// PostgresParagraphStore implements the store.ParagraphStore interface
// using a PostgreSQL database as the storage backend.
type PostgresParagraphStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresParagraphStore creates a new PostgreSQL implementation of the
// ParagraphStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresParagraphStore(db store.DBTX, logger *slog.Logger) *PostgresParagraphStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresParagraphStore{
		db:     db,
		logger: logger.With(slog.String("component", "paragraph_store")),
	}
}

// Ensure PostgresParagraphStore implements store.ParagraphStore interface
var _ store.ParagraphStore = (*PostgresParagraphStore)(nil)

// WithTx returns a new ParagraphStore that runs against the provided
// transaction.
func (s *PostgresParagraphStore) WithTx(tx *sql.Tx) store.ParagraphStore {
	return &PostgresParagraphStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ParagraphStore.Create
// It saves a new paragraph to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owning user doesn't exist
// (foreign key violation).
func (s *PostgresParagraphStore) Create(ctx context.Context, paragraph *domain.Paragraph) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := paragraph.Validate(); err != nil {
		log.Warn("paragraph validation failed during create",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", paragraph.ID.String()))
		return err
	}

	query := `
		INSERT INTO paragraphs (id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		paragraph.ID,
		paragraph.UserID,
		paragraph.Content,
		paragraph.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during paragraph creation",
				slog.String("error", err.Error()),
				slog.String("paragraph_id", paragraph.ID.String()),
				slog.String("user_id", paragraph.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, paragraph.UserID)
		}

		log.Error("failed to create paragraph",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", paragraph.ID.String()),
			slog.String("user_id", paragraph.UserID.String()))
		return err
	}

	log.Debug("paragraph created successfully",
		slog.String("paragraph_id", paragraph.ID.String()),
		slog.String("user_id", paragraph.UserID.String()))
	return nil
}

// GetByID implements store.ParagraphStore.GetByID
// Returns store.ErrParagraphNotFound if the paragraph does not exist.
func (s *PostgresParagraphStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	return s.getByID(ctx, id, false)
}

// GetByIDForUpdate implements store.ParagraphStore.GetByIDForUpdate
// It acquires an exclusive row lock on the paragraph for the duration of
// the enclosing transaction. Locking outside a transaction would be a
// no-op, so it refuses to run against a plain connection.
func (s *PostgresParagraphStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	if _, ok := s.db.(*sql.Tx); !ok {
		return nil, store.NewStoreError("paragraph", "get_for_update",
			"row locking requires a transactional store", nil)
	}
	return s.getByID(ctx, id, true)
}

func (s *PostgresParagraphStore) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Paragraph, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content, created_at
		FROM paragraphs
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var paragraph domain.Paragraph
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&paragraph.ID,
		&paragraph.UserID,
		&paragraph.Content,
		&paragraph.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("paragraph not found", slog.String("paragraph_id", id.String()))
			return nil, store.ErrParagraphNotFound
		}
		log.Error("failed to get paragraph by ID",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", id.String()))
		return nil, err
	}

	return &paragraph, nil
}
