// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for RecommendationsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Similarity lookup
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation lookups by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent computing one recommendation lookup",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	ClusterSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_cluster_size",
			Help:    "Number of songs compared per lookup",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		},
	)

	// Dataset
	DatasetSongs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_songs",
			Help: "Number of songs in the loaded dataset",
		},
	)

	DatasetLoadedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_loaded_timestamp",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)

	DatasetReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_reloads_total",
			Help: "Total number of dataset reload attempts by status",
		},
		[]string{"status"},
	)
)

// RecordDatasetLoad updates the dataset gauges after a successful load.
func RecordDatasetLoad(songs int, loadedAtUnix int64) {
	DatasetSongs.Set(float64(songs))
	DatasetLoadedTimestamp.Set(float64(loadedAtUnix))
}
