package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/handler/dto"
	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/service"
)

// AccountHandler handles profile management endpoints.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Profile handles GET /api/v1/account/profile.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// CompleteOnboarding handles POST /api/v1/account/onboarding.
func (h *AccountHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	if err := h.svc.CompleteOnboarding(r.Context(), userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("onboarding_completed", "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// ChangeSubscription handles PUT /api/v1/account/subscription.
func (h *AccountHandler) ChangeSubscription(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.ChangeSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tier := model.SubscriptionTier(req.Tier)
	if err := h.svc.ChangeSubscription(r.Context(), userID, tier); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("subscription_changed", "user_id", userID, "tier", req.Tier)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps account service errors to HTTP responses.
func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidTier):
		writeError(w, http.StatusBadRequest, "INVALID_TIER", "Subscription tier must be free or premium")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
