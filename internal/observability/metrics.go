package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases, SLO breaches.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Model server call rate by operation. Watch for: error vs success ratio.
	ClassifierCallsTotal *prometheus.CounterVec

	// Model server latency per call. Watch for: p95 > 2s (upstream degradation), p99 > 5s (timeout risk).
	ClassifierDuration *prometheus.HistogramVec

	// Retry attempts against the model server. Watch for: high retries = unstable upstream.
	ClassifierRetriesTotal prometheus.Counter

	// Terminal model server failures by category (timeout, network, unavailable, ...).
	ClassifierErrorsTotal *prometheus.CounterVec

	// Weekly forecast cache hits. Hit rate = hits / rate of weekly requests.
	ForecastCacheHitsTotal prometheus.Counter

	// Rows per batch classifier invocation. 28 at the default interval; spikes mean misconfigured intervals.
	ForecastBatchSize prometheus.Histogram

	// Query outcomes: rejected, follow_up, point_answer, weekly_answer, error.
	QueriesTotal *prometheus.CounterVec

	// Live conversation sessions.
	SessionsActive prometheus.Gauge

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ClassifierCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifierCallsTotal",
			Help: "Total number of model server calls",
		},
		[]string{"op", "status"},
	)
	ClassifierDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifierDurationSeconds",
			Help:    "Model server latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op", "status"},
	)
	ClassifierRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "classifierRetriesTotal",
			Help: "Total number of retry attempts for model server calls",
		},
	)
	ClassifierErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifierErrorsTotal",
			Help: "Terminal model server call failures by error category",
		},
		[]string{"category"},
	)
	ForecastCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forecastCacheHitsTotal",
			Help: "Total number of weekly forecast cache hits",
		},
	)
	ForecastBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecastBatchSizeRows",
			Help:    "Feature rows per batch classifier invocation",
			Buckets: []float64{7, 14, 28, 56, 112, 168},
		},
	)
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queriesTotal",
			Help: "Query outcomes by terminal state",
		},
		[]string{"outcome"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessionsActive",
			Help: "Number of live conversation sessions",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ClassifierCallsTotal, ClassifierDuration, ClassifierRetriesTotal, ClassifierErrorsTotal,
		ForecastCacheHitsTotal, ForecastBatchSize,
		QueriesTotal, SessionsActive,
		RateLimitDeniedTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
