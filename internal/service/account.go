package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/metrics"
	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/repository"
)

// Account errors.
var (
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidTier         = errors.New("invalid subscription tier")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLength    = 6
	maxDisplayNameLength = 100
)

// UserStore is the persistence surface the account service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.UserProfile) error
	GetUserByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	SetOnboardingCompleted(ctx context.Context, userID string) error
	UpdateSubscriptionTier(ctx context.Context, userID string, tier model.SubscriptionTier) error
}

// SessionStore holds login sessions keyed by token hash. *cache.Cache
// satisfies it.
type SessionStore interface {
	SetSession(ctx context.Context, tokenHash string, session *model.Session, tier model.SubscriptionTier, ttl time.Duration) error
	GetSession(ctx context.Context, tokenHash string) (*model.SessionContext, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// AccountService handles registration, login and profile management.
type AccountService struct {
	store      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore, sessions SessionStore, sessionTTL time.Duration, logger *slog.Logger, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		store:      store,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		metrics:    recorder,
	}
}

// SignUpInput defines input for registering a new account.
type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// SignUp registers a new user and opens a session for them. The
// returned token is shown once and never stored in plaintext.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (*model.UserProfile, string, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if displayName == "" || len(displayName) > maxDisplayNameLength {
		return nil, "", ErrDisplayNameRequired
	}
	if !emailRegex.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserProfile{
		ID:                  ulid.Make().String(),
		DisplayName:         displayName,
		Email:               email,
		PasswordHash:        hash,
		SubscriptionTier:    model.TierFree,
		OnboardingCompleted: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.metrics.IncSignup()
	s.logger.Info("user registered", slog.String("user_id", user.ID))

	return user, token, nil
}

// SignIn verifies credentials and opens a session. Unknown emails and
// wrong passwords report the same error.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*model.UserProfile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SignOut deletes the session for the given token. Unknown or malformed
// tokens are a no-op.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	if err := auth.ValidateSessionToken(token); err != nil {
		return nil
	}
	return s.sessions.DeleteSession(ctx, auth.QuickHash(token))
}

// Profile returns the user's profile.
func (s *AccountService) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// CompleteOnboarding marks the user's onboarding as finished.
func (s *AccountService) CompleteOnboarding(ctx context.Context, userID string) error {
	if err := s.store.SetOnboardingCompleted(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("complete onboarding: %w", err)
	}
	return nil
}

// ChangeSubscription updates the user's subscription tier.
func (s *AccountService) ChangeSubscription(ctx context.Context, userID string, tier model.SubscriptionTier) error {
	if !tier.IsValid() {
		return ErrInvalidTier
	}
	if err := s.store.UpdateSubscriptionTier(ctx, userID, tier); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

func (s *AccountService) openSession(ctx context.Context, user *model.UserProfile) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.SetSession(ctx, auth.QuickHash(token), session, user.SubscriptionTier, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}
