package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the dashboard backend.
type Metrics struct {
	SnapshotRequests *prometheus.CounterVec // labels: outcome={success,not_found,provider_error,malformed,error}
	SnapshotDuration prometheus.Histogram

	ProviderRequests *prometheus.CounterVec // labels: facet={geocode,current,forecast,air_quality}, outcome={success,error,malformed}
	GeocodeCache     *prometheus.CounterVec // labels: result={hit,miss}

	RefreshRuns *prometheus.CounterVec // labels: outcome={success,error,skipped}
}

// NewMetrics creates and registers all instruments with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SnapshotRequests,
		m.SnapshotDuration,
		m.ProviderRequests,
		m.GeocodeCache,
		m.RefreshRuns,
	)
	return m
}

// NewMetricsForTesting creates unregistered instruments so parallel tests do
// not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SnapshotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "snapshot_requests_total",
			Help:      "Snapshot pipeline invocations by outcome.",
		}, []string{"outcome"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dashboard",
			Name:      "snapshot_duration_seconds",
			Help:      "End-to-end duration of one snapshot assembly.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests by facet and outcome.",
		}, []string{"facet", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "refresh_runs_total",
			Help:      "Background refresh job runs by outcome.",
		}, []string{"outcome"}),
	}
}
