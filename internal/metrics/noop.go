package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncConversationCreated is a no-op.
func (n *NoopRecorder) IncConversationCreated() {}

// IncTurnSent is a no-op.
func (n *NoopRecorder) IncTurnSent() {}

// IncCompletionFallback is a no-op.
func (n *NoopRecorder) IncCompletionFallback(reason string) {}

// ObserveCompletionDuration is a no-op.
func (n *NoopRecorder) ObserveCompletionDuration(duration time.Duration) {}

// IncCheckinRecorded is a no-op.
func (n *NoopRecorder) IncCheckinRecorded() {}

// IncStreakCacheHit is a no-op.
func (n *NoopRecorder) IncStreakCacheHit() {}

// IncStreakCacheMiss is a no-op.
func (n *NoopRecorder) IncStreakCacheMiss() {}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}
