package extractor

import (
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseDecodeFailure ExtractionErrorCause = "charset decoding failed"
	ErrCauseParseFailure  ExtractionErrorCause = "html parsing failed"
	ErrCauseNoContent     ExtractionErrorCause = "no content"
)

// ExtractionError never leaves the package; it only feeds the
// degradation record.
type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s: %s", e.Cause, e.Message)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDecodeFailure, ErrCauseParseFailure, ErrCauseNoContent:
		return metadata.CauseParseDegradation
	default:
		return metadata.CauseUnknown
	}
}
