package metadata

import (
	"strconv"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/metrics"
	"go.uber.org/zap"
)

/*
Metadata Collected
- Fetch durations and HTTP status codes
- Per-keyword provider failures
- Persisted result locations
- One summary per analysis

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Status codes
- Durations
- Scores and counts

Metadata is write-only.
No component may read metadata to influence analysis decisions.
*/

/*
Recorder captures structured analysis events as zap entries and
Prometheus observations.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received.
*/
type Recorder struct {
	logger *zap.Logger
	runId  string
}

func NewRecorder(logger *zap.Logger, runId string) Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Recorder{
		logger: logger.With(zap.String("run_id", runId)),
		runId:  runId,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	metrics.ErrorsRecorded.WithLabelValues(packageName, cause.String()).Inc()

	fields := []zap.Field{
		zap.Time("observed_at", observedAt),
		zap.String("package", packageName),
		zap.String("action", action),
		zap.String("cause", cause.String()),
		zap.String("error", errorString),
	}
	r.logger.Warn("pipeline error", append(fields, attrFields(attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
	outcome := "ok"
	if httpStatus == 0 {
		outcome = "error"
	}
	metrics.FetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	r.logger.Debug("page fetched",
		zap.String("url", fetchUrl),
		zap.Int("http_status", httpStatus),
		zap.Duration("duration", duration),
		zap.String("content_type", contentType),
		zap.Int("retry_count", retryCount),
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	metrics.ArtifactsWritten.WithLabelValues(string(kind)).Inc()

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("path", path),
	}
	r.logger.Debug("artifact written", append(fields, attrFields(attrs)...)...)
}

/*
RecordAnalysis records a terminal, derived summary of a finished analysis.

Contract:
  - MUST be called exactly once per Analyze call that produced a result.
  - The summary MUST be derived from the returned result, not accumulated
    incrementally via the recorder.
*/
func (r *Recorder) RecordAnalysis(summary AnalysisSummary) {
	cache := "miss"
	if summary.CacheHit {
		cache = "hit"
	}
	metrics.AnalysesCompleted.WithLabelValues(cache).Inc()
	if !summary.CacheHit {
		metrics.FinalScore.Observe(float64(summary.FinalScore))
	}

	r.logger.Info("analysis finished",
		zap.String("url", summary.URL),
		zap.Bool("cache_hit", summary.CacheHit),
		zap.Int("seed_keywords", summary.SeedKeywords),
		zap.Int("page_questions", summary.PageQuestions),
		zap.Int("search_questions", summary.SearchQuestions),
		zap.Int("structure_score", summary.StructureScore),
		zap.Int("final_score", summary.FinalScore),
		zap.Duration("duration", summary.Duration),
	)
}

func attrFields(attrs []Attribute) []zap.Field {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(attrs))
	seen := make(map[AttributeKey]int, len(attrs))
	for _, a := range attrs {
		key := string(a.Key)
		// repeated keys would collide in JSON output
		if n := seen[a.Key]; n > 0 {
			key = key + "_" + strconv.Itoa(n)
		}
		seen[a.Key]++
		out = append(out, zap.String(key, a.Value))
	}
	return out
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		retryCount int,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type AnalysisFinalizer interface {
	RecordAnalysis(summary AnalysisSummary)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Analyzer (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordAnalysis(summary AnalysisSummary) {}
