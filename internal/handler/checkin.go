package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/handler/dto"
	"github.com/neuronova/neuronova/internal/service"
)

// CheckinHandler handles mood check-in endpoints.
type CheckinHandler struct {
	svc    *service.CheckinService
	logger *slog.Logger
}

// NewCheckinHandler creates a new CheckinHandler.
func NewCheckinHandler(svc *service.CheckinService, logger *slog.Logger) *CheckinHandler {
	return &CheckinHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/checkins.
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.CreateCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	checkin, err := h.svc.RecordCheckin(r.Context(), userID, service.RecordCheckinInput{
		Score:    req.Score,
		Emotions: req.Emotions,
		Note:     req.Note,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("checkin_recorded", "checkin_id", checkin.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToCheckinResponse(checkin))
}

// List handles GET /api/v1/checkins.
func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	checkins, err := h.svc.RecentCheckins(r.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.CheckinListResponse{Data: make([]dto.CheckinResponse, 0, len(checkins))}
	for _, c := range checkins {
		response.Data = append(response.Data, dto.ToCheckinResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}

// Streak handles GET /api/v1/checkins/streak.
func (h *CheckinHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	streak, err := h.svc.Streak(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StreakResponse{Streak: streak})
}

// Summary handles GET /api/v1/checkins/summary.
func (h *CheckinHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleServiceError maps check-in service errors to HTTP responses.
func (h *CheckinHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMoodScore):
		writeError(w, http.StatusBadRequest, "INVALID_MOOD_SCORE", "Mood score must be between 1 and 5")
	case errors.Is(err, service.ErrTooManyEmotions):
		writeError(w, http.StatusBadRequest, "TOO_MANY_EMOTIONS", "Too many emotions selected")
	case errors.Is(err, service.ErrNoteTooLong):
		writeError(w, http.StatusBadRequest, "NOTE_TOO_LONG", "Note exceeds maximum length")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
