// Package model defines domain entities for the application.
package model

import "time"

// SubscriptionTier represents a user's subscription level.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// IsValid checks if the subscription tier is a known value.
func (t SubscriptionTier) IsValid() bool {
	return t == TierFree || t == TierPremium
}

// UserProfile represents a registered user of the wellness app.
// Created at signup; mutated on onboarding completion and
// subscription changes. Never deleted by the application.
type UserProfile struct {
	ID                  string           `json:"id"`
	DisplayName         string           `json:"display_name"`
	Email               string           `json:"email"`
	PasswordHash        string           `json:"-"`
	SubscriptionTier    SubscriptionTier `json:"subscription_tier"`
	OnboardingCompleted bool             `json:"onboarding_completed"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// IsPremium returns true if the user has a paid subscription.
func (u *UserProfile) IsPremium() bool {
	return u.SubscriptionTier == TierPremium
}
