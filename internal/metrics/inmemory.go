package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ConversationsCreated      uint64
	TurnsSent                 uint64
	CompletionFallbacks       map[string]uint64
	CompletionDurationCount   uint64
	CompletionDurationTotalNs int64
	CheckinsRecorded          uint64
	StreakCacheHits           uint64
	StreakCacheMisses         uint64
	Signups                   uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	conversationsCreated      uint64
	turnsSent                 uint64
	completionDurationCount   uint64
	completionDurationTotalNs int64
	checkinsRecorded          uint64
	streakCacheHits           uint64
	streakCacheMisses         uint64
	signups                   uint64

	mu        sync.Mutex
	fallbacks map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		fallbacks: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	fallbacks := make(map[string]uint64, len(m.fallbacks))
	for reason, count := range m.fallbacks {
		fallbacks[reason] = count
	}
	m.mu.Unlock()

	return Snapshot{
		ConversationsCreated:      atomic.LoadUint64(&m.conversationsCreated),
		TurnsSent:                 atomic.LoadUint64(&m.turnsSent),
		CompletionFallbacks:       fallbacks,
		CompletionDurationCount:   atomic.LoadUint64(&m.completionDurationCount),
		CompletionDurationTotalNs: atomic.LoadInt64(&m.completionDurationTotalNs),
		CheckinsRecorded:          atomic.LoadUint64(&m.checkinsRecorded),
		StreakCacheHits:           atomic.LoadUint64(&m.streakCacheHits),
		StreakCacheMisses:         atomic.LoadUint64(&m.streakCacheMisses),
		Signups:                   atomic.LoadUint64(&m.signups),
	}
}

// IncConversationCreated increments the conversation counter.
func (m *InMemoryRecorder) IncConversationCreated() {
	atomic.AddUint64(&m.conversationsCreated, 1)
}

// IncTurnSent increments the turn counter.
func (m *InMemoryRecorder) IncTurnSent() {
	atomic.AddUint64(&m.turnsSent, 1)
}

// IncCompletionFallback increments the fallback counter for a reason.
func (m *InMemoryRecorder) IncCompletionFallback(reason string) {
	m.mu.Lock()
	m.fallbacks[reason]++
	m.mu.Unlock()
}

// ObserveCompletionDuration records completion call duration.
func (m *InMemoryRecorder) ObserveCompletionDuration(duration time.Duration) {
	atomic.AddUint64(&m.completionDurationCount, 1)
	atomic.AddInt64(&m.completionDurationTotalNs, duration.Nanoseconds())
}

// IncCheckinRecorded increments the check-in counter.
func (m *InMemoryRecorder) IncCheckinRecorded() {
	atomic.AddUint64(&m.checkinsRecorded, 1)
}

// IncStreakCacheHit increments the streak cache hit counter.
func (m *InMemoryRecorder) IncStreakCacheHit() {
	atomic.AddUint64(&m.streakCacheHits, 1)
}

// IncStreakCacheMiss increments the streak cache miss counter.
func (m *InMemoryRecorder) IncStreakCacheMiss() {
	atomic.AddUint64(&m.streakCacheMisses, 1)
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}
