package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics in Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	cacheHits      prometheus.Gauge
	cacheMisses    prometheus.Gauge
	cacheHitRate   prometheus.Gauge
	cacheKeys      prometheus.Gauge
	cacheEvictions prometheus.Gauge

	checkDecisions *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpErrors     *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		cacheHits: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authone_check_cache_hits_total",
			Help: "Cumulative cache hits reported by the check cache",
		}),
		cacheMisses: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authone_check_cache_misses_total",
			Help: "Cumulative cache misses reported by the check cache",
		}),
		cacheHitRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authone_check_cache_hit_rate",
			Help: "Current cache hit rate (0.0 to 1.0)",
		}),
		cacheKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authone_check_cache_keys_current",
			Help: "Current number of keys in the check cache",
		}),
		cacheEvictions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authone_check_cache_evictions_total",
			Help: "Cumulative check cache evictions reported by the cache",
		}),
		checkDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authone_check_decisions_total",
				Help: "Total number of access check decisions",
			},
			[]string{"outcome"},
		),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authone_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authone_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"route"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authone_http_errors_total",
				Help: "Total number of HTTP error responses",
			},
			[]string{"route"},
		),
	}
}

// Update refreshes the cache metrics from the collector. The cache keeps
// its own cumulative counters, so they are mirrored into gauges here
// rather than incremented inline; call this periodically.
func (e *PrometheusExporter) Update() {
	cacheMetrics := e.collector.GetCacheMetrics()
	e.cacheHits.Set(float64(cacheMetrics.Hits))
	e.cacheMisses.Set(float64(cacheMetrics.Misses))
	e.cacheHitRate.Set(cacheMetrics.HitRate)
	e.cacheKeys.Set(float64(cacheMetrics.KeysCurrent))
	e.cacheEvictions.Set(float64(cacheMetrics.Evictions))
}

// RecordRequest records an HTTP request.
func (e *PrometheusExporter) RecordRequest(route string) {
	e.httpRequests.WithLabelValues(route).Inc()
}

// RecordDuration records an HTTP request duration.
func (e *PrometheusExporter) RecordDuration(route string, durationSeconds float64) {
	e.httpDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordError records an HTTP error response.
func (e *PrometheusExporter) RecordError(route string) {
	e.httpErrors.WithLabelValues(route).Inc()
}

// RecordDecision records an access check outcome ("allowed" or "denied").
func (e *PrometheusExporter) RecordDecision(outcome string) {
	e.checkDecisions.WithLabelValues(outcome).Inc()
}
