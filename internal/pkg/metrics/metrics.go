package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"route", "method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "placement_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"route", "method"},
	)
	ApplicationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "placement_applications_created_total", Help: "Applications submitted by students"},
	)
	StatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_status_updates_total", Help: "Application status changes by new status"},
		[]string{"status"},
	)
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_import_rows_total", Help: "Bulk import rows by outcome"},
		[]string{"outcome"},
	)
	NotificationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "placement_notifications_created_total", Help: "Notifications written"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPDuration,
			ApplicationsCreated,
			StatusUpdates,
			ImportRows,
			NotificationsCreated,
		)
	})
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
