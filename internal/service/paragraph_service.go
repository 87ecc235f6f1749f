package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/events"
	"github.com/parafreq/parafreq-api/internal/store"
	"github.com/parafreq/parafreq-api/internal/task"
)

// ParagraphRepository defines the repository interface the service
// layer needs for paragraphs. It mirrors store.ParagraphStore plus
// access to the underlying connection for transaction management.
type ParagraphRepository interface {
	// Create saves a new paragraph to the store
	Create(ctx context.Context, paragraph *domain.Paragraph) error

	// GetByID retrieves a paragraph by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ParagraphRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// WordFrequencyRepository defines the read side of the frequency index
// used by search.
type WordFrequencyRepository interface {
	// FindTopByWord returns the highest-count matches for an owner+word pair
	FindTopByWord(ctx context.Context, userID uuid.UUID, word string, limit int) ([]*store.WordFrequencyMatch, error)

	// FindByParagraph returns a paragraph's full index, ordered by count
	FindByParagraph(ctx context.Context, paragraphID uuid.UUID) ([]*domain.WordFrequency, error)
}

// ParagraphService provides paragraph submission and search operations
type ParagraphService interface {
	// SubmitParagraphs persists each non-blank item and enqueues one
	// frequency computation per created paragraph
	SubmitParagraphs(ctx context.Context, userID uuid.UUID, items []string) ([]*domain.Paragraph, error)

	// SearchWord returns the top paragraphs for the owner's exact word,
	// ranked by count
	SearchWord(ctx context.Context, userID uuid.UUID, word string) ([]*store.WordFrequencyMatch, error)

	// GetParagraph retrieves a paragraph by its ID
	GetParagraph(ctx context.Context, paragraphID uuid.UUID) (*domain.Paragraph, error)

	// GetParagraphIndex retrieves an owner's paragraph together with its
	// current word-frequency rows. A paragraph owned by someone else is
	// reported as not found.
	GetParagraphIndex(ctx context.Context, userID, paragraphID uuid.UUID) (*domain.Paragraph, []*domain.WordFrequency, error)
}

// SearchResultLimit is the maximum number of results returned by SearchWord.
const SearchResultLimit = 10

// Common sentinel errors for ParagraphService
var (
	// ErrEmptySubmission indicates the submission contained no items
	ErrEmptySubmission = errors.New("submission contains no paragraphs")

	// ErrEmptySearchWord indicates the search word was missing or blank
	ErrEmptySearchWord = errors.New("search word cannot be empty")

	// ErrParagraphNotFound indicates that the paragraph does not exist
	ErrParagraphNotFound = errors.New("paragraph not found")
)

// ParagraphServiceError wraps errors from the paragraph service with context.
type ParagraphServiceError struct {
	// Operation is the operation that failed (e.g., "submit_paragraphs")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ParagraphServiceError.
func (e *ParagraphServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paragraph service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("paragraph service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ParagraphServiceError) Unwrap() error {
	return e.Err
}

// NewParagraphServiceError creates a new ParagraphServiceError.
// It returns known sentinel errors directly without wrapping.
func NewParagraphServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrParagraphNotFound) || errors.Is(err, ErrEmptySubmission) ||
		errors.Is(err, ErrEmptySearchWord) {
		return err
	}

	if errors.Is(err, store.ErrParagraphNotFound) {
		return ErrParagraphNotFound
	}

	return &ParagraphServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// paragraphServiceImpl implements the ParagraphService interface
type paragraphServiceImpl struct {
	paragraphRepo ParagraphRepository
	frequencyRepo WordFrequencyRepository
	eventEmitter  events.EventEmitter
	logger        *slog.Logger
}

// NewParagraphService creates a new ParagraphService.
// It returns an error if any of the required dependencies are nil.
func NewParagraphService(
	paragraphRepo ParagraphRepository,
	frequencyRepo WordFrequencyRepository,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (ParagraphService, error) {
	if paragraphRepo == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_service",
			Message:   "paragraphRepo cannot be nil",
		}
	}
	if frequencyRepo == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_service",
			Message:   "frequencyRepo cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &paragraphServiceImpl{
		paragraphRepo: paragraphRepo,
		frequencyRepo: frequencyRepo,
		eventEmitter:  eventEmitter,
		logger:        logger.With("component", "paragraph_service"),
	}, nil
}

// SubmitParagraphs persists every non-blank item as its own paragraph
// and emits one frequency computation request per created paragraph.
// Blank or whitespace-only items are skipped silently; an empty list
// (or one that is entirely blank) is a client error with no side
// effects. A failure to emit an event surfaces to the caller rather
// than leaving a created paragraph silently un-indexed.
func (s *paragraphServiceImpl) SubmitParagraphs(
	ctx context.Context,
	userID uuid.UUID,
	items []string,
) ([]*domain.Paragraph, error) {
	contents := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		contents = append(contents, item)
	}

	if len(contents) == 0 {
		return nil, ErrEmptySubmission
	}

	paragraphs := make([]*domain.Paragraph, 0, len(contents))
	for _, content := range contents {
		paragraph, err := domain.NewParagraph(userID, content)
		if err != nil {
			s.logger.Error("failed to create paragraph object",
				"error", err,
				"user_id", userID)
			return nil, NewParagraphServiceError("submit_paragraphs", "failed to create paragraph object", err)
		}
		paragraphs = append(paragraphs, paragraph)
	}

	// All paragraphs of one submission are created atomically.
	err := store.RunInTransaction(ctx, s.paragraphRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.paragraphRepo.WithTx(tx)
		for _, paragraph := range paragraphs {
			if err := txRepo.Create(ctx, paragraph); err != nil {
				s.logger.Error("failed to create paragraph in transaction",
					"error", err,
					"user_id", userID,
					"paragraph_id", paragraph.ID)
				return NewParagraphServiceError("submit_paragraphs", "failed to save paragraph to database", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("paragraphs created successfully",
		"user_id", userID,
		"paragraph_count", len(paragraphs))

	for _, paragraph := range paragraphs {
		payload := struct {
			ParagraphID uuid.UUID `json:"paragraph_id"`
		}{
			ParagraphID: paragraph.ID,
		}

		event, err := events.NewTaskRequestEvent(task.TaskTypeFrequencyComputation, payload)
		if err != nil {
			s.logger.Error("failed to create frequency computation event",
				"error", err,
				"paragraph_id", paragraph.ID,
				"user_id", userID)
			return nil, NewParagraphServiceError("submit_paragraphs", "failed to create event", err)
		}

		if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
			s.logger.Error("failed to emit frequency computation event",
				"error", err,
				"paragraph_id", paragraph.ID,
				"user_id", userID,
				"event_id", event.ID)
			return nil, NewParagraphServiceError("submit_paragraphs", "failed to emit event", err)
		}
	}

	s.logger.Info("frequency computation events emitted",
		"user_id", userID,
		"paragraph_count", len(paragraphs))

	return paragraphs, nil
}

// SearchWord returns the owner's top paragraphs for the exact word,
// ranked by count descending. The word is trimmed and lowercased to
// match the normalization applied at index time.
func (s *paragraphServiceImpl) SearchWord(
	ctx context.Context,
	userID uuid.UUID,
	word string,
) ([]*store.WordFrequencyMatch, error) {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return nil, ErrEmptySearchWord
	}

	matches, err := s.frequencyRepo.FindTopByWord(ctx, userID, normalized, SearchResultLimit)
	if err != nil {
		s.logger.Error("failed to search word frequencies",
			"error", err,
			"user_id", userID,
			"word", normalized)
		return nil, NewParagraphServiceError("search_word", "failed to query word frequencies", err)
	}

	s.logger.Debug("word search completed",
		"user_id", userID,
		"word", normalized,
		"result_count", len(matches))

	return matches, nil
}

// GetParagraph retrieves a paragraph by its ID
func (s *paragraphServiceImpl) GetParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
) (*domain.Paragraph, error) {
	paragraph, err := s.paragraphRepo.GetByID(ctx, paragraphID)
	if err != nil {
		if errors.Is(err, store.ErrParagraphNotFound) {
			return nil, ErrParagraphNotFound
		}
		return nil, NewParagraphServiceError("get_paragraph", "failed to retrieve paragraph", err)
	}

	return paragraph, nil
}

// GetParagraphIndex retrieves a paragraph and its word-frequency rows.
// Ownership is enforced here: a paragraph belonging to another user is
// indistinguishable from one that does not exist.
func (s *paragraphServiceImpl) GetParagraphIndex(
	ctx context.Context,
	userID, paragraphID uuid.UUID,
) (*domain.Paragraph, []*domain.WordFrequency, error) {
	paragraph, err := s.GetParagraph(ctx, paragraphID)
	if err != nil {
		return nil, nil, err
	}

	if paragraph.UserID != userID {
		return nil, nil, ErrParagraphNotFound
	}

	frequencies, err := s.frequencyRepo.FindByParagraph(ctx, paragraphID)
	if err != nil {
		s.logger.Error("failed to load word frequencies for paragraph",
			"error", err,
			"paragraph_id", paragraphID,
			"user_id", userID)
		return nil, nil, NewParagraphServiceError("get_paragraph_index", "failed to load word frequencies", err)
	}

	return paragraph, frequencies, nil
}
