package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/neuronova/neuronova/internal/auth"
	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/repository"
)

type output struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Tier     string `json:"tier"`
	Checkins int    `json:"checkins"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		displayName = flag.String("name", "Demo", "Display name for the demo account")
		email       = flag.String("email", "demo@neuronova.local", "Account email")
		password    = flag.String("password", "demo-pass", "Account password")
		tierInput   = flag.String("tier", "free", "Subscription tier (free or premium)")
		streakDays  = flag.Int("streak", 0, "Seed one check-in per day for the past N days")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	tier, err := parseTier(*tierInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *displayName, *email, *password, tier)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	seeded, err := seedCheckins(ctx, repo, user.ID, *streakDays)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed checkins:", err)
		os.Exit(1)
	}

	out := output{
		UserID:   user.ID,
		Email:    user.Email,
		Password: *password,
		Tier:     string(tier),
		Checkins: seeded,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Email)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseTier(input string) (model.SubscriptionTier, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", string(model.TierFree):
		return model.TierFree, nil
	case string(model.TierPremium):
		return model.TierPremium, nil
	default:
		return "", fmt.Errorf("invalid tier: %s", input)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, displayName, email, password string, tier model.SubscriptionTier) (*model.UserProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	existing, err := repo.GetUserByEmail(ctx, normalized)
	if err == nil {
		return existing, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserProfile{
		ID:               ulid.Make().String(),
		DisplayName:      displayName,
		Email:            normalized,
		PasswordHash:     hash,
		SubscriptionTier: tier,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func seedCheckins(ctx context.Context, repo *repository.Repository, userID string, days int) (int, error) {
	now := time.Now().UTC()
	for i := 0; i < days; i++ {
		checkin := &model.MoodCheckin{
			ID:        ulid.Make().String(),
			UserID:    userID,
			MoodScore: model.StoredMoodScore(3),
			Emotions:  []string{"calm"},
			CreatedAt: now.AddDate(0, 0, -i),
		}
		if err := repo.CreateCheckin(ctx, checkin); err != nil {
			return i, err
		}
	}
	return days, nil
}
