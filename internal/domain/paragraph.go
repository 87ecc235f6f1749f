package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Paragraph
var (
	ErrEmptyParagraphID      = errors.New("paragraph ID cannot be empty")
	ErrEmptyParagraphUserID  = errors.New("paragraph user ID cannot be empty")
	ErrEmptyParagraphContent = errors.New("paragraph content cannot be empty")
)

// Paragraph represents one immutable unit of text submitted by a user.
// Content is never updated after creation; the word-frequency index for
// a paragraph is recomputed from this content by the background worker.
type Paragraph struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewParagraph creates a new Paragraph owned by the given user.
// It generates a new UUID for the paragraph ID and sets the creation
// timestamp. Returns an error if validation fails.
func NewParagraph(userID uuid.UUID, content string) (*Paragraph, error) {
	paragraph := &Paragraph{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := paragraph.Validate(); err != nil {
		return nil, err
	}

	return paragraph, nil
}

// Validate checks if the Paragraph has valid data.
// Returns an error if any field fails validation.
func (p *Paragraph) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyParagraphID
	}

	if p.UserID == uuid.Nil {
		return ErrEmptyParagraphUserID
	}

	if p.Content == "" {
		return ErrEmptyParagraphContent
	}

	return nil
}

// PreviewLength is the maximum number of characters of paragraph content
// included in search results before truncation.
const PreviewLength = 100

// Preview returns the paragraph content truncated to PreviewLength
// characters, with an ellipsis marker appended only when truncation
// actually occurred. Truncation counts runes, not bytes, so multi-byte
// content is never split mid-character.
func (p *Paragraph) Preview() string {
	return ContentPreview(p.Content)
}

// ContentPreview truncates arbitrary paragraph content the same way
// Preview does. Used when the content is available without a full
// Paragraph, such as rows joined into search results.
func ContentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength]) + "..."
}
