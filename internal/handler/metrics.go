package handler

import (
	"fmt"
	"net/http"

	"github.com/fintrack/fintrack/internal/metrics"
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

	writeMetric(w, "fintrack_signups_total{outcome=\"success\"} %d\n", snap.SignupsSucceeded)
	writeMetric(w, "fintrack_signups_total{outcome=\"conflict\"} %d\n", snap.SignupsConflicted)
	writeMetric(w, "fintrack_signups_total{outcome=\"invalid\"} %d\n", snap.SignupsInvalid)

	writeMetric(w, "fintrack_logins_total{outcome=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "fintrack_logins_total{outcome=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "fintrack_login_duration_seconds_count %d\n", snap.LoginDurationCount)
	writeMetric(w, "fintrack_login_duration_seconds_sum %.6f\n", float64(snap.LoginDurationTotalNs)/1e9)

	writeMetric(w, "fintrack_auth_rejected_total %d\n", snap.AuthRejected)
	writeMetric(w, "fintrack_access_denied_total %d\n", snap.AccessDenied)

	writeMetric(w, "fintrack_records_created_total{kind=\"expense\"} %d\n", snap.ExpensesCreated)
	writeMetric(w, "fintrack_records_updated_total{kind=\"expense\"} %d\n", snap.ExpensesUpdated)
	writeMetric(w, "fintrack_records_deleted_total{kind=\"expense\"} %d\n", snap.ExpensesDeleted)
	writeMetric(w, "fintrack_records_created_total{kind=\"income\"} %d\n", snap.IncomesCreated)
	writeMetric(w, "fintrack_records_updated_total{kind=\"income\"} %d\n", snap.IncomesUpdated)
	writeMetric(w, "fintrack_records_deleted_total{kind=\"income\"} %d\n", snap.IncomesDeleted)

	writeMetric(w, "fintrack_stats_cache_hits_total %d\n", snap.StatsCacheHits)
	writeMetric(w, "fintrack_stats_cache_misses_total %d\n", snap.StatsCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
