package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parafreq/parafreq-api/internal/api/shared"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/service"
	"github.com/parafreq/parafreq-api/internal/store"
)

// SearchHandler handles word search API requests.
type SearchHandler struct {
	paragraphService service.ParagraphService
}

// NewSearchHandler creates a new SearchHandler with the given
// paragraph service.
func NewSearchHandler(paragraphService service.ParagraphService) *SearchHandler {
	return &SearchHandler{
		paragraphService: paragraphService,
	}
}

// SearchWord handles GET /search?word=<w>. Results are scoped to the
// authenticated user's own paragraphs and ranked by occurrence count.
func (h *SearchHandler) SearchWord(w http.ResponseWriter, r *http.Request) {
	// Extract user ID from context (set by auth middleware)
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	word := r.URL.Query().Get("word")

	matches, err := h.paragraphService.SearchWord(r.Context(), userID, word)
	if err != nil {
		if errors.Is(err, service.ErrEmptySearchWord) {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Query parameter 'word' is required")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to search paragraphs", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, searchMatchesToResponse(word, matches))
}

// searchMatchesToResponse maps store matches into the response DTO,
// truncating content to its preview form. The echoed word is the
// normalized form actually searched.
func searchMatchesToResponse(word string, matches []*store.WordFrequencyMatch) SearchResponse {
	results := make([]*SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, &SearchResult{
			ParagraphID: match.ParagraphID,
			Content:     domain.ContentPreview(match.Content),
			Count:       match.Count,
			CreatedAt:   match.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return SearchResponse{
		Word:         normalizeSearchWord(word),
		TotalResults: len(results),
		Results:      results,
	}
}

// normalizeSearchWord applies the same normalization the index uses:
// surrounding whitespace stripped, lowercased.
func normalizeSearchWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
