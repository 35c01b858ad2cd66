package service

import "time"

// streakWindow caps how many recent check-ins are considered when
// computing a streak. Streaks longer than this report the cap.
const streakWindow = 30

// ComputeStreak returns the number of consecutive calendar days with at
// least one check-in, ending at the most recent check-in. Timestamps
// must be sorted newest first. Days are compared after truncating to
// midnight in each timestamp's location, so two check-ins on the same
// calendar day have a gap of zero days and end the streak there.
func ComputeStreak(checkins []time.Time) int {
	if len(checkins) == 0 {
		return 0
	}
	streak := 1
	for i := 0; i < len(checkins)-1; i++ {
		gap := dayGap(checkins[i], checkins[i+1])
		if gap != 1 {
			break
		}
		streak++
	}
	return streak
}

// dayGap returns the whole calendar days between two timestamps,
// newest first.
func dayGap(newer, older time.Time) int {
	n := startOfDay(newer)
	o := startOfDay(older)
	return int(n.Sub(o) / (24 * time.Hour))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
