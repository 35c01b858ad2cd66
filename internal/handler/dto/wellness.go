// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/neuronova/neuronova/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SignUpRequest represents the request body for registering an account.
type SignUpRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// SignInRequest represents the request body for logging in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a successful sign-up or sign-in.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user profile in API responses.
type UserResponse struct {
	ID                  string    `json:"id"`
	DisplayName         string    `json:"display_name"`
	Email               string    `json:"email"`
	SubscriptionTier    string    `json:"subscription_tier"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

// SendMessageRequest represents the request body for a chat turn.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationResponse represents the active conversation and its
// transcript.
type ConversationResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []MessageResponse `json:"messages"`
}

// TurnResponse represents a completed chat turn.
type TurnResponse struct {
	UserMessage      MessageResponse `json:"user_message"`
	AssistantMessage MessageResponse `json:"assistant_message"`
}

// CreateCheckinRequest represents the request body for a mood check-in.
// Score is on the 1-5 scale.
type CreateCheckinRequest struct {
	Score    int      `json:"score"`
	Emotions []string `json:"emotions,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// CheckinResponse represents a mood check-in in API responses.
// Score is reported on the 1-5 scale.
type CheckinResponse struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Emotions  []string  `json:"emotions"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckinListResponse represents a list of check-ins.
type CheckinListResponse struct {
	Data []CheckinResponse `json:"data"`
}

// StreakResponse represents the current check-in streak.
type StreakResponse struct {
	Streak int `json:"streak"`
}

// CreateJournalRequest represents the request body for a journal entry.
type CreateJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// JournalResponse represents a journal entry in API responses.
type JournalResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalListResponse represents a list of journal entries.
type JournalListResponse struct {
	Data []JournalResponse `json:"data"`
}

// ChangeSubscriptionRequest represents the request body for changing
// the subscription tier.
type ChangeSubscriptionRequest struct {
	Tier string `json:"tier"`
}

// ToUserResponse converts a UserProfile model to UserResponse DTO.
func ToUserResponse(user *model.UserProfile) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		DisplayName:         user.DisplayName,
		Email:               user.Email,
		SubscriptionTier:    string(user.SubscriptionTier),
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
	}
}

// ToMessageResponse converts a Message model to MessageResponse DTO.
func ToMessageResponse(msg *model.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

// ToConversationResponse converts a conversation and its transcript to
// a ConversationResponse DTO.
func ToConversationResponse(conv *model.Conversation, messages []*model.Message) ConversationResponse {
	out := ConversationResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		Messages:  make([]MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		out.Messages = append(out.Messages, ToMessageResponse(m))
	}
	return out
}

// ToCheckinResponse converts a MoodCheckin model to CheckinResponse DTO.
func ToCheckinResponse(checkin *model.MoodCheckin) CheckinResponse {
	return CheckinResponse{
		ID:        checkin.ID,
		Score:     checkin.DisplayScore(),
		Emotions:  checkin.Emotions,
		Note:      checkin.Note,
		CreatedAt: checkin.CreatedAt,
	}
}

// ToJournalResponse converts a JournalEntry model to JournalResponse DTO.
func ToJournalResponse(entry *model.JournalEntry) JournalResponse {
	return JournalResponse{
		ID:        entry.ID,
		Title:     entry.Title,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
	}
}
