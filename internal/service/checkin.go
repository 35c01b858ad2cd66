package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/neuronova/neuronova/internal/metrics"
	"github.com/neuronova/neuronova/internal/model"
)

// Check-in errors.
var (
	ErrInvalidMoodScore = errors.New("mood score must be between 1 and 5")
	ErrTooManyEmotions  = errors.New("too many emotions selected")
	ErrNoteTooLong      = errors.New("note too long")
)

const (
	maxEmotions      = 15
	maxNoteLength    = 2000
	defaultListLimit = 30
	maxListLimit     = 100
)

// CheckinStore is the persistence surface the check-in service needs.
type CheckinStore interface {
	CreateCheckin(ctx context.Context, checkin *model.MoodCheckin) error
	ListRecentCheckins(ctx context.Context, userID string, limit int) ([]*model.MoodCheckin, error)
	ListCheckinTimes(ctx context.Context, userID string, limit int) ([]time.Time, error)
}

// StreakCache caches computed streaks per user. *cache.Cache satisfies it.
type StreakCache interface {
	GetStreak(ctx context.Context, userID string) (int, bool)
	SetStreak(ctx context.Context, userID string, streak int) error
	InvalidateStreak(ctx context.Context, userID string) error
}

// CheckinService records mood check-ins and computes streaks.
type CheckinService struct {
	store   CheckinStore
	cache   StreakCache
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewCheckinService creates a new CheckinService.
func NewCheckinService(store CheckinStore, streakCache StreakCache, logger *slog.Logger, recorder metrics.Recorder) *CheckinService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CheckinService{
		store:   store,
		cache:   streakCache,
		logger:  logger,
		metrics: recorder,
	}
}

// RecordCheckinInput defines input for recording a mood check-in.
// Score is on the 1-5 input scale.
type RecordCheckinInput struct {
	Score    int
	Emotions []string
	Note     string
}

// RecordCheckin validates and persists a mood check-in, then drops the
// user's cached streak so the next read recomputes it.
func (s *CheckinService) RecordCheckin(ctx context.Context, userID string, input RecordCheckinInput) (*model.MoodCheckin, error) {
	if input.Score < model.MinMoodInput || input.Score > model.MaxMoodInput {
		return nil, ErrInvalidMoodScore
	}
	if len(input.Emotions) > maxEmotions {
		return nil, ErrTooManyEmotions
	}
	if len(input.Note) > maxNoteLength {
		return nil, ErrNoteTooLong
	}

	emotions := make([]string, 0, len(input.Emotions))
	for _, e := range input.Emotions {
		e = strings.TrimSpace(e)
		if e != "" {
			emotions = append(emotions, e)
		}
	}

	checkin := &model.MoodCheckin{
		ID:        ulid.Make().String(),
		UserID:    userID,
		MoodScore: model.StoredMoodScore(input.Score),
		Emotions:  emotions,
		Note:      strings.TrimSpace(input.Note),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateCheckin(ctx, checkin); err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}

	if err := s.cache.InvalidateStreak(ctx, userID); err != nil {
		s.logger.Warn("streak invalidation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.IncCheckinRecorded()

	return checkin, nil
}

// Streak returns the user's current consecutive-day check-in streak,
// serving from cache when possible.
func (s *CheckinService) Streak(ctx context.Context, userID string) (int, error) {
	if streak, ok := s.cache.GetStreak(ctx, userID); ok {
		s.metrics.IncStreakCacheHit()
		return streak, nil
	}
	s.metrics.IncStreakCacheMiss()

	times, err := s.store.ListCheckinTimes(ctx, userID, streakWindow)
	if err != nil {
		return 0, fmt.Errorf("list checkin times: %w", err)
	}
	streak := ComputeStreak(times)

	if err := s.cache.SetStreak(ctx, userID, streak); err != nil {
		s.logger.Warn("streak cache write failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return streak, nil
}

// RecentCheckins returns the user's most recent check-ins, newest first.
func (s *CheckinService) RecentCheckins(ctx context.Context, userID string, limit int) ([]*model.MoodCheckin, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	checkins, err := s.store.ListRecentCheckins(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	return checkins, nil
}

// MoodSummary aggregates a user's recent check-in activity.
type MoodSummary struct {
	CheckinCount int     `json:"checkin_count"`
	AverageMood  float64 `json:"average_mood"`
	Streak       int     `json:"streak"`
}

// Summary computes aggregate stats over the user's recent check-ins.
// AverageMood is reported on the 1-5 display scale.
func (s *CheckinService) Summary(ctx context.Context, userID string) (*MoodSummary, error) {
	checkins, err := s.store.ListRecentCheckins(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}

	summary := &MoodSummary{CheckinCount: len(checkins)}
	if len(checkins) > 0 {
		var sum int
		for _, c := range checkins {
			sum += c.MoodScore
		}
		summary.AverageMood = float64(sum) / float64(len(checkins)) / float64(2)
	}

	streak, err := s.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.Streak = streak

	return summary, nil
}
