// Package model defines domain entities for the application.
package model

import "time"

// JournalEntry represents a free-form journal entry owned by one user.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
