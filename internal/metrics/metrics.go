package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcast_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Forecast Metrics
	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_forecasts_total",
			Help: "Total number of forecast operations by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "not_found", "error"
	)

	ForecastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcast_forecast_duration_seconds",
			Help:    "Duration of forecast operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_recommendation_requests_total",
			Help: "Total number of recommendation strategy invocations",
		},
		[]string{"strategy", "outcome"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockcast_recommendation_results",
			Help:    "Number of products returned per strategy invocation",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)
)

func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordForecast records one forecast operation. notFound only applies to
// single-product forecasts.
func RecordForecast(operation string, duration time.Duration, notFound bool, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case notFound:
		outcome = "not_found"
	}
	ForecastsTotal.WithLabelValues(operation, outcome).Inc()
	ForecastDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordRecommendation(strategy string, results int, err error) {
	if err != nil {
		RecommendationRequests.WithLabelValues(strategy, "error").Inc()
		return
	}
	RecommendationRequests.WithLabelValues(strategy, "ok").Inc()
	RecommendationResults.WithLabelValues(strategy).Observe(float64(results))
}

func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}
