// Package metrics declares the Prometheus instruments exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Candidate outcomes
const (
	OutcomeRanked          = "ranked"
	OutcomeHardExcluded    = "hard_excluded"
	OutcomeSpeciesMismatch = "species_mismatch"
)

// Config snapshot sources
const (
	SnapshotCache    = "cache"
	SnapshotSource   = "source"
	SnapshotFallback = "fallback"
)

var (
	// Scoring
	CandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_candidates_scored_total",
			Help: "Candidates scored, by outcome",
		},
		[]string{"outcome"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "petfit_scoring_batch_duration_seconds",
			Help:    "Time to score and rank one batch of candidates",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	ConfigSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_config_snapshots_total",
			Help: "Config-table snapshots resolved, by where they came from",
		},
		[]string{"from"},
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petfit_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordBatch records the outcome counts and duration of one scoring batch
func RecordBatch(ranked, hardExcluded, speciesMismatch int, elapsed time.Duration) {
	CandidatesScored.WithLabelValues(OutcomeRanked).Add(float64(ranked))
	CandidatesScored.WithLabelValues(OutcomeHardExcluded).Add(float64(hardExcluded))
	CandidatesScored.WithLabelValues(OutcomeSpeciesMismatch).Add(float64(speciesMismatch))
	BatchDuration.Observe(elapsed.Seconds())
}

// RecordHTTP records one served request
func RecordHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
