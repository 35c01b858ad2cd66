// Package model defines domain entities for the application.
package model

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// DefaultConversationTitle is the title given to newly created conversations.
const DefaultConversationTitle = "New Conversation"

// Conversation represents a chat thread owned by one user.
// The most recently created conversation is treated as the user's
// active thread.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single message within a conversation.
// Messages are immutable once created and ordered by creation time
// ascending within their conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
