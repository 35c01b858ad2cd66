// Package model defines domain entities for the application.
package model

import "time"

// Mood score bounds. The client submits a 1-5 rating; check-ins store
// the value doubled (2-10) to leave room for finer-grained scales.
const (
	MinMoodInput = 1
	MaxMoodInput = 5

	moodScaleFactor = 2
)

// StoredMoodScore converts a 1-5 user rating to its stored 2-10 form.
func StoredMoodScore(input int) int {
	return input * moodScaleFactor
}

// MoodCheckin represents a single mood check-in. Immutable once created.
type MoodCheckin struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MoodScore int       `json:"mood_score"` // stored form, 2-10
	Emotions  []string  `json:"emotions"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayScore returns the check-in's mood on the 1-5 input scale.
func (c *MoodCheckin) DisplayScore() int {
	return c.MoodScore / moodScaleFactor
}
