// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "car_advisor_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Recommendations
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_recommendations_total",
			Help: "Recommendation requests served, by ranking mode",
		},
		[]string{"mode"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "car_advisor_recommendation_results",
			Help:    "Number of cars returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 10, 20},
		},
		[]string{"mode"},
	)

	// LLM
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_llm_requests_total",
			Help: "LLM calls by operation and outcome (success, failure, rejected, cached)",
		},
		[]string{"operation", "outcome"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "car_advisor_llm_request_duration_seconds",
			Help:    "LLM call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	AdvisorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_ai_fallbacks_total",
			Help: "AI responses replaced by canned fallback content",
		},
		[]string{"operation", "reason"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "car_advisor_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_advisor_cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss, shared)",
		},
		[]string{"cache", "result"},
	)
)

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLLM records one LLM call.
func ObserveLLM(operation, outcome string, elapsed time.Duration) {
	LLMRequests.WithLabelValues(operation, outcome).Inc()
	if elapsed > 0 {
		LLMDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}
