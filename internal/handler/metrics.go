package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/neuronova/neuronova/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "neuronova_conversations_created_total %d\n", snap.ConversationsCreated)
	writeMetric(w, "neuronova_chat_turns_total %d\n", snap.TurnsSent)
	writeMetric(w, "neuronova_completion_duration_seconds_count %d\n", snap.CompletionDurationCount)
	writeMetric(w, "neuronova_completion_duration_seconds_sum %.6f\n", float64(snap.CompletionDurationTotalNs)/1e9)

	reasons := make([]string, 0, len(snap.CompletionFallbacks))
	for reason := range snap.CompletionFallbacks {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		writeMetric(w, "neuronova_completion_fallbacks_total{reason=%q} %d\n", reason, snap.CompletionFallbacks[reason])
	}

	writeMetric(w, "neuronova_checkins_recorded_total %d\n", snap.CheckinsRecorded)
	writeMetric(w, "neuronova_streak_cache_hits_total %d\n", snap.StreakCacheHits)
	writeMetric(w, "neuronova_streak_cache_misses_total %d\n", snap.StreakCacheMisses)
	writeMetric(w, "neuronova_signups_total %d\n", snap.Signups)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
