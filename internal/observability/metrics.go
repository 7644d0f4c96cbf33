package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	apiErrorsTotal          *prometheus.CounterVec
	evaluationUpsertsTotal  *prometheus.CounterVec
	leaderboardGenSeconds   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the scoring API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoring_latency_seconds",
			Help:    "Latency distribution for scoring API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_errors_total",
			Help: "Total number of error responses returned by scoring endpoints.",
		}, []string{"method", "route", "status"})

		evaluationUpsertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_upserts_total",
			Help: "Total number of judge evaluation writes by scoring mode.",
		}, []string{"scoring_mode"})

		leaderboardGenSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leaderboard_generation_seconds",
			Help:    "Duration of leaderboard snapshot generation.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, evaluationUpsertsTotal, leaderboardGenSeconds)
	})
}

// APIRequests exposes the counter for scoring API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for scoring API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for scoring API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// EvaluationUpserts exposes the counter for evaluation writes.
func EvaluationUpserts() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationUpsertsTotal
}

// LeaderboardGenerations exposes the snapshot generation histogram.
func LeaderboardGenerations() prometheus.Histogram {
	RegisterMetrics()
	return leaderboardGenSeconds
}
