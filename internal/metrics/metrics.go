package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GeocodeRequests     *prometheus.CounterVec
	GeocodeLatency      prometheus.Histogram
	Resolutions         *prometheus.CounterVec
	DashboardFetches    *prometheus.CounterVec
	DashboardLegLatency *prometheus.HistogramVec
	CatalogLoads        *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GeocodeRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgnrega_geocode_requests_total",
			Help: "Reverse geocoding calls by outcome kind",
		}, []string{"outcome"}),
		GeocodeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mgnrega_geocode_duration_seconds",
			Help:    "Latency of reverse geocoding calls",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgnrega_location_resolutions_total",
			Help: "Location resolutions by terminal state",
		}, []string{"state"}),
		DashboardFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgnrega_dashboard_fetches_total",
			Help: "Dashboard aggregations by outcome kind",
		}, []string{"outcome"}),
		DashboardLegLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mgnrega_dashboard_leg_duration_seconds",
			Help:    "Latency of each dashboard retrieval",
			Buckets: prometheus.DefBuckets,
		}, []string{"leg"}),
		CatalogLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgnrega_catalog_loads_total",
			Help: "District catalog loads by source",
		}, []string{"source"}),
	}
}

// ObserveGeocode records one geocoding call.
func (m *Metrics) ObserveGeocode(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(outcome).Inc()
	m.GeocodeLatency.Observe(d.Seconds())
}

// IncResolution counts a resolution ending in state.
func (m *Metrics) IncResolution(state string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(state).Inc()
}

// IncDashboardFetch counts a dashboard aggregation outcome.
func (m *Metrics) IncDashboardFetch(outcome string) {
	if m == nil {
		return
	}
	m.DashboardFetches.WithLabelValues(outcome).Inc()
}

// ObserveLeg records the latency of one dashboard retrieval leg.
func (m *Metrics) ObserveLeg(leg string, d time.Duration) {
	if m == nil {
		return
	}
	m.DashboardLegLatency.WithLabelValues(leg).Observe(d.Seconds())
}

// IncCatalogLoad counts a catalog load served from source ("cache" or "backend").
func (m *Metrics) IncCatalogLoad(source string) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(source).Inc()
}
