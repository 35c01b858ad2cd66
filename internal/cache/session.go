package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neuronova/neuronova/internal/model"
)

const (
	// sessionPrefix is the Redis key prefix for login sessions.
	// Keys are derived from a hash of the token so raw tokens never
	// appear in Redis.
	sessionPrefix = "session:"
)

// CachedSession represents session state stored in Redis.
type CachedSession struct {
	UserID           string    `json:"user_id"`
	SubscriptionTier string    `json:"subscription_tier"`
	CreatedAt        time.Time `json:"created_at"`
}

// SetSession stores a session under the given token hash with a TTL.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, session *model.Session, tier model.SubscriptionTier, ttl time.Duration) error {
	cached := CachedSession{
		UserID:           session.UserID,
		SubscriptionTier: string(tier),
		CreatedAt:        session.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, sessionPrefix+tokenHash, data, ttl).Err()
}

// GetSession retrieves a session context by token hash.
// Returns nil if not found or expired (cache miss).
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.SessionContext, error) {
	data, err := c.client.Get(ctx, sessionPrefix+tokenHash).Bytes()
	if err != nil {
		// Miss or expiry is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.SessionContext{
		UserID:           cached.UserID,
		SubscriptionTier: model.SubscriptionTier(cached.SubscriptionTier),
	}, nil
}

// DeleteSession removes a session. Used on sign-out.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, sessionPrefix+tokenHash).Err()
}
