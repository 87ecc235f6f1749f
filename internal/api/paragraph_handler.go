package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parafreq/parafreq-api/internal/api/shared"
	"github.com/parafreq/parafreq-api/internal/service"
)

// ParagraphHandler handles paragraph-related API requests.
type ParagraphHandler struct {
	paragraphService service.ParagraphService
}

// NewParagraphHandler creates a new ParagraphHandler with the given
// paragraph service.
func NewParagraphHandler(paragraphService service.ParagraphService) *ParagraphHandler {
	return &ParagraphHandler{
		paragraphService: paragraphService,
	}
}

// SubmitParagraphs handles POST /paragraphs. Each submitted item is
// stored as its own paragraph and queued for frequency indexing; the
// response is sent before any indexing happens.
func (h *ParagraphHandler) SubmitParagraphs(w http.ResponseWriter, r *http.Request) {
	// Extract user ID from context (set by auth middleware)
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Parse request body
	var req SubmitParagraphsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	paragraphs, err := h.paragraphService.SubmitParagraphs(r.Context(), userID, req.Paragraphs)
	if err != nil {
		if errors.Is(err, service.ErrEmptySubmission) {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Submission must contain at least one non-empty paragraph")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to submit paragraphs", err)
		return
	}

	ids := make([]uuid.UUID, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		ids = append(ids, paragraph.ID)
	}

	// 202: the paragraphs are stored but their indexes are still being
	// computed in the background.
	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitParagraphsResponse{
		Message:      fmt.Sprintf("Processing %d paragraphs", len(ids)),
		ParagraphIDs: ids,
		Processing:   true,
	})
}

// GetParagraph handles GET /paragraphs/{id}, returning one of the
// caller's paragraphs with its current word-frequency index.
func (h *ParagraphHandler) GetParagraph(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	paragraphID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid paragraph ID")
		return
	}

	paragraph, frequencies, err := h.paragraphService.GetParagraphIndex(r.Context(), userID, paragraphID)
	if err != nil {
		if errors.Is(err, service.ErrParagraphNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Paragraph not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve paragraph", err)
		return
	}

	counts := make([]WordCount, 0, len(frequencies))
	for _, wf := range frequencies {
		counts = append(counts, WordCount{Word: wf.Word, Count: wf.Count})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParagraphIndexResponse{
		ParagraphID: paragraph.ID,
		Content:     paragraph.Content,
		CreatedAt:   paragraph.CreatedAt.UTC().Format(time.RFC3339),
		Frequencies: counts,
	})
}
