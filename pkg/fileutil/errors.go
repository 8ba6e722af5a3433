package fileutil

import (
	"fmt"

	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

type FileErrorCause string

const (
	ErrCausePathError  FileErrorCause = "path error"
	ErrCauseWriteError FileErrorCause = "write error"
	// out of space; the same write may succeed later
	ErrCauseDiskFull FileErrorCause = "disk full"
)

type FileError struct {
	Message string
	Cause   FileErrorCause
	Path    string
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("file error: %s: %s", e.Cause, e.Message)
	}
	return fmt.Sprintf("file error: %s: %s: %s", e.Cause, e.Path, e.Message)
}

func (e *FileError) IsRetryable() bool {
	return e.Cause == ErrCauseDiskFull
}

func (e *FileError) Severity() failure.Severity {
	if e.IsRetryable() {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
