// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/neuronova/neuronova/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 574301

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationOrder lists migration basenames in dependency order.
var migrationOrder = []string{
	"000001_users_profile",
	"000002_conversations",
	"000003_mood_checkins",
	"000004_journal_entries",
}

// ResetSchema drops and recreates all application tables for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	// Down migrations in reverse order, then up in order.
	for i := len(migrationOrder) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationOrder[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range migrationOrder {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, filename string) error {
	path := filepath.Join(root, "migrations", filename)
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestUser creates a test user profile with sensible defaults.
func NewTestUser(t testing.TB) *model.UserProfile {
	t.Helper()
	now := time.Now().UTC()
	id := ulid.Make().String()
	return &model.UserProfile{
		ID:               id,
		DisplayName:      "Test User",
		Email:            fmt.Sprintf("user-%s@example.com", id),
		PasswordHash:     "$argon2id$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		SubscriptionTier: model.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewTestConversation creates a test conversation for a user.
func NewTestConversation(t testing.TB, userID string) *model.Conversation {
	t.Helper()
	return &model.Conversation{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     model.DefaultConversationTitle,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestCheckin creates a test mood check-in for a user.
func NewTestCheckin(t testing.TB, userID string, createdAt time.Time) *model.MoodCheckin {
	t.Helper()
	return &model.MoodCheckin{
		ID:        ulid.Make().String(),
		UserID:    userID,
		MoodScore: 6,
		Emotions:  []string{"calm"},
		CreatedAt: createdAt,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
