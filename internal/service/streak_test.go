package service

import (
	"testing"
	"time"
)

func day(offset int, hour int) time.Time {
	base := time.Date(2026, 3, 15, hour, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -offset)
}

func TestComputeStreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checkins []time.Time
		want     int
	}{
		{
			name:     "empty history",
			checkins: nil,
			want:     0,
		},
		{
			name:     "single checkin",
			checkins: []time.Time{day(0, 9)},
			want:     1,
		},
		{
			name:     "three consecutive days",
			checkins: []time.Time{day(0, 9), day(1, 20), day(2, 7)},
			want:     3,
		},
		{
			name:     "gap ends streak",
			checkins: []time.Time{day(0, 9), day(1, 9), day(2, 9), day(5, 9)},
			want:     3,
		},
		{
			name:     "same day duplicate ends streak",
			checkins: []time.Time{day(0, 21), day(0, 8), day(1, 9)},
			want:     1,
		},
		{
			name:     "gap right after most recent",
			checkins: []time.Time{day(0, 9), day(3, 9), day(4, 9)},
			want:     1,
		},
		{
			name:     "midnight boundary counts as adjacent days",
			checkins: []time.Time{
				time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC),
				time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeStreak(tt.checkins)
			if got != tt.want {
				t.Errorf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeStreak_WindowCap(t *testing.T) {
	t.Parallel()

	checkins := make([]time.Time, streakWindow)
	for i := range checkins {
		checkins[i] = day(i, 12)
	}
	if got := ComputeStreak(checkins); got != streakWindow {
		t.Errorf("ComputeStreak() = %d, want %d", got, streakWindow)
	}
}
