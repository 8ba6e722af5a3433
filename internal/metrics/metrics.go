package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrorsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_errors_recorded_total",
			Help: "Total number of errors recorded per pipeline package and canonical cause",
		},
		[]string{"package", "cause"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geo_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	ArtifactsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_artifacts_written_total",
			Help: "Total number of persisted artifacts",
		},
		[]string{"kind"},
	)

	AnalysesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_analyses_completed_total",
			Help: "Total number of completed analyses by cache outcome",
		},
		[]string{"cache"},
	)

	FinalScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geo_final_score",
			Help:    "Distribution of final GEO scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
)
