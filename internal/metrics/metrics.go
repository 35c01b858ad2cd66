// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Chat metrics
	IncConversationCreated()
	IncTurnSent()
	IncCompletionFallback(reason string) // reason: "not_configured", "upstream", "transport"
	ObserveCompletionDuration(duration time.Duration)

	// Check-in metrics
	IncCheckinRecorded()
	IncStreakCacheHit()
	IncStreakCacheMiss()

	// Account metrics
	IncSignup()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
