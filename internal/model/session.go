// Package model defines domain entities for the application.
package model

import "time"

// Session represents a server-issued login session.
// Sessions live in Redis with a TTL; the token is opaque to clients.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionContext carries the authenticated user through a request.
// It is created by the session middleware after token verification and
// torn down when the request completes or the user signs out.
type SessionContext struct {
	UserID           string
	SubscriptionTier SubscriptionTier
}
