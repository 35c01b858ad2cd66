package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuronova/neuronova/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// CreateUser inserts a new user profile into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.UserProfile) error {
	query := `
		INSERT INTO users_profile (
			id, display_name, email, password_hash,
			subscription_tier, onboarding_completed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Email,
		user.PasswordHash,
		user.SubscriptionTier,
		user.OnboardingCompleted,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user profile by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.UserProfile, error) {
	query := `
		SELECT id, display_name, email, password_hash,
		       subscription_tier, onboarding_completed, created_at, updated_at
		FROM users_profile
		WHERE id = $1
	`

	var user model.UserProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Email,
		&user.PasswordHash,
		&user.SubscriptionTier,
		&user.OnboardingCompleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user profile by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	query := `
		SELECT id, display_name, email, password_hash,
		       subscription_tier, onboarding_completed, created_at, updated_at
		FROM users_profile
		WHERE email = $1
	`

	var user model.UserProfile
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Email,
		&user.PasswordHash,
		&user.SubscriptionTier,
		&user.OnboardingCompleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// SetOnboardingCompleted marks a user's onboarding as complete.
func (r *Repository) SetOnboardingCompleted(ctx context.Context, userID string) error {
	query := `
		UPDATE users_profile
		SET onboarding_completed = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateSubscriptionTier changes a user's subscription tier.
func (r *Repository) UpdateSubscriptionTier(ctx context.Context, userID string, tier model.SubscriptionTier) error {
	query := `
		UPDATE users_profile
		SET subscription_tier = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, tier)
	if err != nil {
		return fmt.Errorf("failed to update subscription tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
