package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/handler/dto"
	"github.com/neuronova/neuronova/internal/service"
)

// JournalHandler handles journal endpoints.
type JournalHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(svc *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/journal.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), userID, service.CreateEntryInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("journal_entry_created", "entry_id", entry.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToJournalResponse(entry))
}

// List handles GET /api/v1/journal.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.svc.ListEntries(r.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.JournalListResponse{Data: make([]dto.JournalResponse, 0, len(entries))}
	for _, e := range entries {
		response.Data = append(response.Data, dto.ToJournalResponse(e))
	}
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/journal/{id}.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Entry ID is required")
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToJournalResponse(entry))
}

// Delete handles DELETE /api/v1/journal/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Entry ID is required")
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), id, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("journal_entry_deleted", "entry_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps journal service errors to HTTP responses.
func (h *JournalHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", "Journal entry not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrContentRequired):
		writeError(w, http.StatusBadRequest, "CONTENT_REQUIRED", "Content is required")
	case errors.Is(err, service.ErrTitleTooLong):
		writeError(w, http.StatusBadRequest, "TITLE_TOO_LONG", "Title exceeds maximum length")
	case errors.Is(err, service.ErrContentTooLong):
		writeError(w, http.StatusBadRequest, "CONTENT_TOO_LONG", "Content exceeds maximum length")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
