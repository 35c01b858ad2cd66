package cache

import (
	"context"
	"strconv"
	"time"
)

const (
	// streakPrefix is the Redis key prefix for cached streak counts.
	streakPrefix = "streak:user:"
	// streakTTL bounds staleness of a cached streak. The streak can
	// only change on a new check-in (which invalidates the key) or at
	// midnight, so a short TTL is enough to cover the day rollover.
	streakTTL = 10 * time.Minute
)

// GetStreak retrieves a cached streak count for a user.
// Returns (0, false) on a cache miss.
func (c *Cache) GetStreak(ctx context.Context, userID string) (int, bool) {
	val, err := c.client.Get(ctx, streakPrefix+userID).Result()
	if err != nil {
		return 0, false
	}

	streak, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}

	return streak, true
}

// SetStreak caches a streak count for a user.
func (c *Cache) SetStreak(ctx context.Context, userID string, streak int) error {
	return c.client.Set(ctx, streakPrefix+userID, strconv.Itoa(streak), streakTTL).Err()
}

// InvalidateStreak removes a cached streak. Called after a new check-in.
func (c *Cache) InvalidateStreak(ctx context.Context, userID string) error {
	return c.client.Del(ctx, streakPrefix+userID).Err()
}
