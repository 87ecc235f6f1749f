package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be exchanged for a new
	// token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// SubmitParagraphsRequest defines the payload for the paragraph
// submission endpoint. Each list item becomes its own paragraph;
// blank items are skipped.
type SubmitParagraphsRequest struct {
	Paragraphs []string `json:"paragraphs" validate:"required,min=1"`
}

// SubmitParagraphsResponse defines the accepted response for the
// paragraph submission endpoint. Frequency indexing happens
// asynchronously after this response is sent.
type SubmitParagraphsResponse struct {
	Message      string      `json:"message"`
	ParagraphIDs []uuid.UUID `json:"paragraph_ids"`
	Processing   bool        `json:"processing"`
}

// WordCount is one word-frequency entry in a paragraph index response.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ParagraphIndexResponse defines the successful response for the
// single-paragraph endpoint: the paragraph itself plus its current
// frequency index, ordered by count descending. An empty frequencies
// list means indexing has not completed yet (or the content had no
// tokens).
type ParagraphIndexResponse struct {
	ParagraphID uuid.UUID   `json:"paragraph_id"`
	Content     string      `json:"content"`
	CreatedAt   string      `json:"created_at"`
	Frequencies []WordCount `json:"frequencies"`
}

// SearchResult is one ranked match in a word search response.
type SearchResult struct {
	// ParagraphID identifies the paragraph the word was found in
	ParagraphID uuid.UUID `json:"paragraph_id"`

	// Content is a preview of the paragraph content, truncated when the
	// paragraph exceeds the preview length
	Content string `json:"content"`

	// Count is how many times the word occurs in the paragraph
	Count int `json:"count"`

	// CreatedAt is the ISO 8601 timestamp the paragraph was submitted
	CreatedAt string `json:"created_at"`
}

// SearchResponse defines the successful response for the word search
// endpoint. Results are ordered by count descending.
type SearchResponse struct {
	Word         string          `json:"word"`
	TotalResults int             `json:"total_results"`
	Results      []*SearchResult `json:"results"`
}
