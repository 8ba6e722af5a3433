package storage

import (
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCauseDiskFull              StorageErrorCause = "disk is full"
	ErrCauseWriteFailure          StorageErrorCause = "write failed"
	ErrCauseReadFailure           StorageErrorCause = "read failed"
	ErrCausePathError             StorageErrorCause = "path error"
	ErrCauseHashComputationFailed StorageErrorCause = "hash computation failed"
	ErrCauseEncodeFailure         StorageErrorCause = "encode failed"
	ErrCauseDecodeFailure         StorageErrorCause = "stored record is corrupt"
	ErrCauseBackendUnavailable    StorageErrorCause = "backend unavailable"
)

// StorageError never aborts an analysis: a result that cannot be looked up
// is recomputed, a result that cannot be stored is still returned.
type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %s", e.Cause, e.Message)
}

func (e *StorageError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *StorageError) IsRetryable() bool {
	return e.Retryable
}

// mapStorageErrorToMetadataCause maps storage-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDiskFull,
		ErrCauseWriteFailure,
		ErrCauseReadFailure,
		ErrCausePathError,
		ErrCauseEncodeFailure,
		ErrCauseDecodeFailure:
		return metadata.CauseStorageFailure
	case ErrCauseBackendUnavailable:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
