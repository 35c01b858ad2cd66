package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/handler/dto"
	"github.com/neuronova/neuronova/internal/service"
)

// ChatHandler handles conversation endpoints.
type ChatHandler struct {
	svc    *service.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		svc:    svc,
		logger: logger,
	}
}

// ActiveConversation handles GET /api/v1/chat/conversation.
// Returns the user's current conversation, creating one with a welcome
// message if none exists.
func (h *ChatHandler) ActiveConversation(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	conv, messages, err := h.svc.ResolveActiveConversation(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToConversationResponse(conv, messages))
}

// SendMessage handles POST /api/v1/chat/messages.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CONVERSATION_ID", "Conversation ID is required")
		return
	}

	turn, err := h.svc.SendMessage(r.Context(), req.ConversationID, userID, req.Content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TurnResponse{
		UserMessage:      dto.ToMessageResponse(turn.UserMessage),
		AssistantMessage: dto.ToMessageResponse(turn.AssistantMessage),
	})
}

// handleServiceError maps chat service errors to HTTP responses.
func (h *ChatHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "EMPTY_MESSAGE", "Message content is required")
	case errors.Is(err, service.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, "MESSAGE_TOO_LONG", "Message content exceeds maximum length")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
