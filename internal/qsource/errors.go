package qsource

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
)

type ProviderErrorCause string

const (
	ErrCauseUnsupportedSource ProviderErrorCause = "unsupported source"
	ErrCauseRequestFailure    ProviderErrorCause = "request failed"
	ErrCauseBadStatus         ProviderErrorCause = "unexpected status"
	ErrCauseDecodeFailure     ProviderErrorCause = "malformed response"
)

type ProviderError struct {
	Message   string
	Retryable bool
	Cause     ProviderErrorCause
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s: %s", e.Cause, e.Message)
}

// Severity is always recoverable: one keyword failing never stops an analysis.
func (e *ProviderError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ProviderError) IsRetryable() bool {
	return e.Retryable
}

// mapProviderErrorToMetadataCause maps provider-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapProviderErrorToMetadataCause(err error) metadata.ErrorCause {
	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) {
		return metadata.CauseRetryFailure
	}
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		return metadata.CauseProviderFailure
	}
	switch pErr.Cause {
	case ErrCauseRequestFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseUnsupportedSource, ErrCauseBadStatus, ErrCauseDecodeFailure:
		return metadata.CauseProviderFailure
	default:
		return metadata.CauseUnknown
	}
}
