package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_requests_total",
			Help: "Resolve requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of commerce platform calls by endpoint and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)
)

// Register registers all collectors. Call once at startup.
func Register() {
	prometheus.MustRegister(ResolveTotal, UpstreamDuration)
}

// Handler exposes the metrics endpoint for the main router.
func Handler() http.Handler {
	return promhttp.Handler()
}
