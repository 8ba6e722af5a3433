package storage

import (
	"context"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

/*
Responsibilities
- Persist analysis results keyed by normalized URL
- Return the last stored result for a key

Store Semantics
- One result per key; storing again overwrites
- Lookup of an unknown key is a miss, not an error
- Freshness is decided by the caller from AnalyzedAt
- Implementations are safe for concurrent use
*/
type ResultStore interface {
	Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError)
	Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError
}

// NoopStore never finds anything and forgets everything it is given.
type NoopStore struct{}

func (NoopStore) Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError) {
	return report.AnalysisResult{}, false, nil
}

func (NoopStore) Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError {
	return nil
}

func recordStorageError(
	sink metadata.MetadataSink,
	action string,
	key string,
	err *StorageError,
) {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrURL, key),
	}
	if err.Path != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrWritePath, err.Path))
	}
	sink.RecordError(
		time.Now(),
		"storage",
		action,
		mapStorageErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}
