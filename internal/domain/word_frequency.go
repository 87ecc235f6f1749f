package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxWordLength bounds the length of a normalized token stored in the
// index. Tokens longer than this are discarded by the tokenizer.
const MaxWordLength = 100

// Common validation errors for WordFrequency
var (
	ErrEmptyWordFrequencyID          = errors.New("word frequency ID cannot be empty")
	ErrEmptyWordFrequencyUserID      = errors.New("word frequency user ID cannot be empty")
	ErrEmptyWordFrequencyParagraphID = errors.New("word frequency paragraph ID cannot be empty")
	ErrEmptyWord                     = errors.New("word cannot be empty")
	ErrWordTooLong                   = errors.New("word exceeds maximum length")
	ErrNonPositiveCount              = errors.New("count must be positive")
)

// WordFrequency is one (paragraph, normalized word) -> count fact.
// The full set of rows for a paragraph is always exactly one complete
// generation produced by the most recent successful computation.
//
// UserID is denormalized from the owning Paragraph so owner-scoped
// searches avoid a join. It is set once at computation time and never
// updated independently.
type WordFrequency struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ParagraphID uuid.UUID `json:"paragraph_id"`
	Word        string    `json:"word"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewWordFrequency creates a new WordFrequency row for the given
// paragraph and owner. Returns an error if validation fails.
func NewWordFrequency(userID, paragraphID uuid.UUID, word string, count int) (*WordFrequency, error) {
	wf := &WordFrequency{
		ID:          uuid.New(),
		UserID:      userID,
		ParagraphID: paragraphID,
		Word:        word,
		Count:       count,
		CreatedAt:   time.Now().UTC(),
	}

	if err := wf.Validate(); err != nil {
		return nil, err
	}

	return wf, nil
}

// Validate checks if the WordFrequency has valid data.
// Returns an error if any field fails validation.
func (wf *WordFrequency) Validate() error {
	if wf.ID == uuid.Nil {
		return ErrEmptyWordFrequencyID
	}

	if wf.UserID == uuid.Nil {
		return ErrEmptyWordFrequencyUserID
	}

	if wf.ParagraphID == uuid.Nil {
		return ErrEmptyWordFrequencyParagraphID
	}

	if wf.Word == "" {
		return ErrEmptyWord
	}

	if len(wf.Word) > MaxWordLength {
		return ErrWordTooLong
	}

	if wf.Count <= 0 {
		return ErrNonPositiveCount
	}

	return nil
}
