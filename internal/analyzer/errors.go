package analyzer

import (
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

type AnalysisErrorCause string

const (
	ErrCauseInvalidURL   AnalysisErrorCause = "invalid url"
	ErrCauseFetchFailure AnalysisErrorCause = "fetch failure"
)

// AnalysisError is the only error an analysis run surfaces. Every other
// stage degrades to empty values.
type AnalysisError struct {
	Message string
	Cause   AnalysisErrorCause
	URL     string
	Err     failure.ClassifiedError
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis error: %s: %s: %v", e.Cause, e.Message, e.Err)
	}
	return fmt.Sprintf("analysis error: %s: %s", e.Cause, e.Message)
}

func (e *AnalysisError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *AnalysisError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}
