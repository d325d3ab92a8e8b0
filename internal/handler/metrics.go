package handler

import (
	"fmt"
	"net/http"

	"github.com/quillpad/quillpad/internal/metrics"
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

	writeMetric(w, "quillpad_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "quillpad_user_email_conflicts_total %d\n", snap.UserConflicts)

	writeMetric(w, "quillpad_articles_created_total %d\n", snap.ArticlesCreated)
	writeMetric(w, "quillpad_article_author_missing_total %d\n", snap.ArticleAuthorMissing)

	writeMetric(w, "quillpad_avatars_served_total{status=\"ok\"} %d\n", snap.AvatarsServed)
	writeMetric(w, "quillpad_avatars_served_total{status=\"not_modified\"} %d\n", snap.AvatarsNotModified)

	writeMetric(w, "quillpad_store_duration_seconds_count %d\n", snap.StoreDurationCount)
	writeMetric(w, "quillpad_store_duration_seconds_sum %.6f\n", float64(snap.StoreDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
