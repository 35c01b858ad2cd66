package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neuronova/neuronova/internal/model"
)

type fakeCheckinStore struct {
	checkins []*model.MoodCheckin
	times    []time.Time
	listErr  error
}

func (f *fakeCheckinStore) CreateCheckin(_ context.Context, checkin *model.MoodCheckin) error {
	f.checkins = append(f.checkins, checkin)
	return nil
}

func (f *fakeCheckinStore) ListRecentCheckins(_ context.Context, userID string, limit int) ([]*model.MoodCheckin, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.checkins
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCheckinStore) ListCheckinTimes(_ context.Context, userID string, limit int) ([]time.Time, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.times
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeStreakCache struct {
	streaks     map[string]int
	invalidated int
	setCalls    int
}

func newFakeStreakCache() *fakeStreakCache {
	return &fakeStreakCache{streaks: make(map[string]int)}
}

func (f *fakeStreakCache) GetStreak(_ context.Context, userID string) (int, bool) {
	streak, ok := f.streaks[userID]
	return streak, ok
}

func (f *fakeStreakCache) SetStreak(_ context.Context, userID string, streak int) error {
	f.setCalls++
	f.streaks[userID] = streak
	return nil
}

func (f *fakeStreakCache) InvalidateStreak(_ context.Context, userID string) error {
	f.invalidated++
	delete(f.streaks, userID)
	return nil
}

func newTestCheckin(store *fakeCheckinStore, streakCache *fakeStreakCache) *CheckinService {
	return NewCheckinService(store, streakCache, testLogger(), nil)
}

func TestRecordCheckin_DoublesScore(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	svc := newTestCheckin(store, newFakeStreakCache())

	tests := []struct {
		input int
		want  int
	}{
		{1, 2},
		{3, 6},
		{5, 10},
	}
	for _, tt := range tests {
		checkin, err := svc.RecordCheckin(context.Background(), "u1", RecordCheckinInput{Score: tt.input})
		if err != nil {
			t.Fatalf("RecordCheckin(%d) error = %v", tt.input, err)
		}
		if checkin.MoodScore != tt.want {
			t.Errorf("stored score for input %d = %d, want %d", tt.input, checkin.MoodScore, tt.want)
		}
	}
}

func TestRecordCheckin_InvalidScore(t *testing.T) {
	t.Parallel()

	svc := newTestCheckin(&fakeCheckinStore{}, newFakeStreakCache())

	for _, score := range []int{0, -1, 6, 10} {
		_, err := svc.RecordCheckin(context.Background(), "u1", RecordCheckinInput{Score: score})
		if !errors.Is(err, ErrInvalidMoodScore) {
			t.Errorf("RecordCheckin(%d) error = %v, want ErrInvalidMoodScore", score, err)
		}
	}
}

func TestRecordCheckin_TrimsEmotions(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	svc := newTestCheckin(store, newFakeStreakCache())

	checkin, err := svc.RecordCheckin(context.Background(), "u1", RecordCheckinInput{
		Score:    4,
		Emotions: []string{" calm ", "", "grateful"},
		Note:     "  good day  ",
	})
	if err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}
	if len(checkin.Emotions) != 2 || checkin.Emotions[0] != "calm" || checkin.Emotions[1] != "grateful" {
		t.Errorf("emotions = %v", checkin.Emotions)
	}
	if checkin.Note != "good day" {
		t.Errorf("note = %q", checkin.Note)
	}
}

func TestRecordCheckin_NoteTooLong(t *testing.T) {
	t.Parallel()

	svc := newTestCheckin(&fakeCheckinStore{}, newFakeStreakCache())

	_, err := svc.RecordCheckin(context.Background(), "u1", RecordCheckinInput{
		Score: 3,
		Note:  strings.Repeat("x", maxNoteLength+1),
	})
	if !errors.Is(err, ErrNoteTooLong) {
		t.Errorf("error = %v, want ErrNoteTooLong", err)
	}
}

func TestRecordCheckin_InvalidatesStreak(t *testing.T) {
	t.Parallel()

	streakCache := newFakeStreakCache()
	streakCache.streaks["u1"] = 4
	svc := newTestCheckin(&fakeCheckinStore{}, streakCache)

	if _, err := svc.RecordCheckin(context.Background(), "u1", RecordCheckinInput{Score: 3}); err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}
	if streakCache.invalidated != 1 {
		t.Errorf("invalidations = %d, want 1", streakCache.invalidated)
	}
	if _, ok := streakCache.streaks["u1"]; ok {
		t.Error("cached streak survived a new checkin")
	}
}

func TestStreak_CacheHitSkipsStore(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{listErr: errors.New("store should not be hit")}
	streakCache := newFakeStreakCache()
	streakCache.streaks["u1"] = 7
	svc := newTestCheckin(store, streakCache)

	streak, err := svc.Streak(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if streak != 7 {
		t.Errorf("streak = %d, want 7", streak)
	}
}

func TestStreak_MissComputesAndCaches(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{
		times: []time.Time{day(0, 9), day(1, 9), day(2, 9)},
	}
	streakCache := newFakeStreakCache()
	svc := newTestCheckin(store, streakCache)

	streak, err := svc.Streak(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if streak != 3 {
		t.Errorf("streak = %d, want 3", streak)
	}
	if streakCache.setCalls != 1 {
		t.Errorf("cache writes = %d, want 1", streakCache.setCalls)
	}
	if cached := streakCache.streaks["u1"]; cached != 3 {
		t.Errorf("cached streak = %d, want 3", cached)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{
		checkins: []*model.MoodCheckin{
			{MoodScore: 8},
			{MoodScore: 4},
		},
		times: []time.Time{day(0, 9)},
	}
	svc := newTestCheckin(store, newFakeStreakCache())

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.CheckinCount != 2 {
		t.Errorf("count = %d, want 2", summary.CheckinCount)
	}
	// (8+4)/2 on the stored scale is 6, so 3.0 on the display scale.
	if summary.AverageMood != 3.0 {
		t.Errorf("average = %v, want 3.0", summary.AverageMood)
	}
	if summary.Streak != 1 {
		t.Errorf("streak = %d, want 1", summary.Streak)
	}
}
