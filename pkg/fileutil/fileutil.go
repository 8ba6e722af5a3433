package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := filepath.Join(append([]string{dir}, path...)...)
	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return &FileError{
			Message: err.Error(),
			Cause:   ErrCausePathError,
			Path:    targetPath,
		}
	}
	return nil
}

// WriteFileAtomic writes data next to path and renames it into place,
// so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) failure.ClassifiedError {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &FileError{Message: err.Error(), Cause: ErrCausePathError, Path: path}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) *FileError {
	cause := ErrCauseWriteError
	if errors.Is(err, syscall.ENOSPC) {
		cause = ErrCauseDiskFull
	}
	return &FileError{Message: err.Error(), Cause: cause, Path: path}
}
