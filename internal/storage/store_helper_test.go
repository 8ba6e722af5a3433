package storage_test

import (
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/internal/score"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	recordErrorCalled      bool
	recordErrorPackageName string
	recordErrorAction      string
	recordErrorCause       metadata.ErrorCause
	recordErrorAttrs       []metadata.Attribute
	recordArtifactCalled   bool
	recordArtifactKind     metadata.ArtifactKind
	recordArtifactPath     string
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalled = true
	m.recordErrorPackageName = packageName
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.recordArtifactCalled = true
	m.recordArtifactKind = kind
	m.recordArtifactPath = path
}

func createTestResult(normalizedURL string, analyzedAt time.Time) report.AnalysisResult {
	return report.NewAnalysisResult(
		normalizedURL+"/",
		normalizedURL,
		extractor.MetaRecord{Title: "Implant guide", Description: "Costs and duration"},
		[]keyword.SeedKeyword{keyword.NewSeedKeyword("implant", 1)},
		[]string{"How long does an implant take?"},
		[]qsource.SearchQuestion{{Source: qsource.SourceGoogle, Text: "implant 비용은 얼마인가요?"}},
		score.Compose(60, 0.5),
		analyzedAt,
	)
}
