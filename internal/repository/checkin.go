package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/neuronova/neuronova/internal/model"
)

// CreateCheckin inserts a new mood check-in. Check-ins are immutable.
func (r *Repository) CreateCheckin(ctx context.Context, checkin *model.MoodCheckin) error {
	query := `
		INSERT INTO mood_checkins (id, user_id, mood_score, emotions, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		checkin.ID,
		checkin.UserID,
		checkin.MoodScore,
		pq.Array(checkin.Emotions),
		nullableString(checkin.Note),
		checkin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create checkin: %w", err)
	}

	return nil
}

// ListRecentCheckins retrieves a user's most recent check-ins,
// newest first, up to limit.
func (r *Repository) ListRecentCheckins(ctx context.Context, userID string, limit int) ([]*model.MoodCheckin, error) {
	query := `
		SELECT id, user_id, mood_score, emotions, COALESCE(note, ''), created_at
		FROM mood_checkins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	checkins := make([]*model.MoodCheckin, 0)
	for rows.Next() {
		var checkin model.MoodCheckin
		var emotions []string
		if err := rows.Scan(
			&checkin.ID,
			&checkin.UserID,
			&checkin.MoodScore,
			pq.Array(&emotions),
			&checkin.Note,
			&checkin.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkin.Emotions = emotions
		checkins = append(checkins, &checkin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkins: %w", err)
	}

	return checkins, nil
}

// ListCheckinTimes retrieves only the creation timestamps of a user's
// most recent check-ins, newest first, up to limit. This is the input
// to streak computation.
func (r *Repository) ListCheckinTimes(ctx context.Context, userID string, limit int) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM mood_checkins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkin times: %w", err)
	}
	defer rows.Close()

	times := make([]time.Time, 0, limit)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan checkin time: %w", err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkin times: %w", err)
	}

	return times, nil
}
