// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/neuronova/neuronova/internal/ai"
	"github.com/neuronova/neuronova/internal/metrics"
	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/repository"
)

// Service errors.
var (
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrMessageTooLong       = errors.New("message content too long")
	ErrConversationNotFound = errors.New("conversation not found")
)

// FallbackReply is persisted as the assistant turn whenever the
// completion backend fails. The user's message is always kept, so the
// transcript never ends on an unanswered user turn.
const FallbackReply = "I apologize, I encountered an issue. Please check your API configuration or try again."

const maxMessageLength = 4000

// ConversationStore is the persistence surface the chat service needs.
// *repository.Repository satisfies it.
type ConversationStore interface {
	GetUserByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetLatestConversation(ctx context.Context, userID string) (*model.Conversation, error)
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*model.Message, error)
}

// Completer produces an assistant reply for a conversation transcript.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// ChatService owns conversation continuity: resolving the active
// conversation for a user and appending complete user/assistant turns.
type ChatService struct {
	store     ConversationStore
	completer Completer
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewChatService creates a new ChatService.
func NewChatService(store ConversationStore, completer Completer, logger *slog.Logger, recorder metrics.Recorder) *ChatService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ChatService{
		store:     store,
		completer: completer,
		logger:    logger,
		metrics:   recorder,
	}
}

// Turn is one completed exchange: the persisted user message and the
// persisted assistant reply.
type Turn struct {
	UserMessage      *model.Message
	AssistantMessage *model.Message
}

// ResolveActiveConversation returns the user's most recent conversation
// and its full transcript. If the user has no conversation yet, one is
// created and seeded with a personalized assistant greeting, so the
// result is never empty.
func (s *ChatService) ResolveActiveConversation(ctx context.Context, userID string) (*model.Conversation, []*model.Message, error) {
	conv, err := s.store.GetLatestConversation(ctx, userID)
	if err == nil {
		messages, err := s.store.ListMessages(ctx, conv.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list messages: %w", err)
		}
		return conv, messages, nil
	}
	if !errors.Is(err, repository.ErrConversationNotFound) {
		return nil, nil, fmt.Errorf("load latest conversation: %w", err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user profile: %w", err)
	}

	now := time.Now().UTC()
	conv = &model.Conversation{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     model.DefaultConversationTitle,
		CreatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, nil, fmt.Errorf("create conversation: %w", err)
	}

	welcome := &model.Message{
		ID:             ulid.Make().String(),
		ConversationID: conv.ID,
		UserID:         userID,
		Role:           model.RoleAssistant,
		Content:        welcomeMessage(user.DisplayName),
		CreatedAt:      now,
	}
	if err := s.store.CreateMessage(ctx, welcome); err != nil {
		return nil, nil, fmt.Errorf("create welcome message: %w", err)
	}

	s.metrics.IncConversationCreated()
	s.logger.Info("conversation created",
		slog.String("conversation_id", conv.ID),
		slog.String("user_id", userID),
	)

	return conv, []*model.Message{welcome}, nil
}

// SendMessage loads the conversation transcript and appends a full turn
// for the given user input.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, userID, text string) (*Turn, error) {
	if err := s.authorizeConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	history, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return s.appendTurn(ctx, conversationID, userID, text, history)
}

// SendTurn appends a user message and an assistant reply to the
// conversation. priorHistory is the transcript before this turn, oldest
// first; the new user message is appended to it for the completion call.
//
// The user message is persisted before the completion backend is
// invoked. If that write fails, the turn is aborted with no side
// effects. If the backend fails, the fixed fallback reply is persisted
// in place of a real completion and the turn still succeeds.
func (s *ChatService) SendTurn(ctx context.Context, conversationID, userID, text string, priorHistory []*model.Message) (*Turn, error) {
	if err := s.authorizeConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.appendTurn(ctx, conversationID, userID, text, priorHistory)
}

func (s *ChatService) appendTurn(ctx context.Context, conversationID, userID, text string, priorHistory []*model.Message) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	userMsg := &model.Message{
		ID:             ulid.Make().String(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           model.RoleUser,
		Content:        text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	prompt := append(ai.HistoryToMessages(priorHistory), ai.ChatMessage{
		Role:    "user",
		Content: text,
	})

	start := time.Now()
	reply, err := s.completer.Complete(ctx, prompt)
	s.metrics.ObserveCompletionDuration(time.Since(start))
	if err != nil {
		reason := fallbackReason(err)
		s.metrics.IncCompletionFallback(reason)
		s.logger.Error("completion failed",
			slog.String("conversation_id", conversationID),
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		reply = FallbackReply
	}

	assistantMsg := &model.Message{
		ID:             ulid.Make().String(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           model.RoleAssistant,
		Content:        reply,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	s.metrics.IncTurnSent()

	return &Turn{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// authorizeConversation verifies the conversation exists and belongs to
// the user. Foreign conversations report not-found rather than
// forbidden, so IDs cannot be probed.
func (s *ChatService) authorizeConversation(ctx context.Context, conversationID, userID string) error {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("load conversation: %w", err)
	}
	if conv.UserID != userID {
		return ErrConversationNotFound
	}
	return nil
}

func welcomeMessage(displayName string) string {
	return fmt.Sprintf("Hey %s, I'm here for you. How are you feeling today?", displayName)
}

func fallbackReason(err error) string {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &upstream):
		return "upstream"
	default:
		return "transport"
	}
}
