package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/fileutil"
	"github.com/rohmanhakim/geo-analyzer/pkg/hashutil"
)

// fileKeyLength is the number of hex characters of the key hash used as
// file name.
const fileKeyLength = 12

/*
LocalStore keeps one JSON file per normalized URL under outputDir.

Output Characteristics
  - File name is the first 12 hex characters of the key hash plus ".json"
  - Writes are atomic; readers never see a partial file
  - Rewrites of the same URL overwrite in place
*/
type LocalStore struct {
	metadataSink metadata.MetadataSink
	outputDir    string
	hashAlgo     hashutil.HashAlgo
}

func NewLocalStore(
	metadataSink metadata.MetadataSink,
	outputDir string,
	hashAlgo hashutil.HashAlgo,
) LocalStore {
	return LocalStore{
		metadataSink: metadataSink,
		outputDir:    outputDir,
		hashAlgo:     hashAlgo,
	}
}

// PathFor returns the file that holds the result for key.
func (s LocalStore) PathFor(key string) (string, *StorageError) {
	name, err := hashutil.ShortKey(key, s.hashAlgo, fileKeyLength)
	if err != nil {
		return "", &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseHashComputationFailed,
		}
	}
	return filepath.Join(s.outputDir, name+".json"), nil
}

func (s LocalStore) Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError) {
	result, found, err := s.lookup(key)
	if err != nil {
		recordStorageError(s.metadataSink, "LocalStore.Lookup", key, err)
		return report.AnalysisResult{}, false, err
	}
	return result, found, nil
}

func (s LocalStore) lookup(key string) (report.AnalysisResult, bool, *StorageError) {
	path, err := s.PathFor(key)
	if err != nil {
		return report.AnalysisResult{}, false, err
	}

	content, readErr := os.ReadFile(path)
	if errors.Is(readErr, os.ErrNotExist) {
		return report.AnalysisResult{}, false, nil
	}
	if readErr != nil {
		return report.AnalysisResult{}, false, &StorageError{
			Message: readErr.Error(),
			Cause:   ErrCauseReadFailure,
			Path:    path,
		}
	}

	var result report.AnalysisResult
	if jsonErr := json.Unmarshal(content, &result); jsonErr != nil {
		return report.AnalysisResult{}, false, &StorageError{
			Message: jsonErr.Error(),
			Cause:   ErrCauseDecodeFailure,
			Path:    path,
		}
	}
	// a hash prefix collision must not hand back another page
	if result.NormalizedURL() != key {
		return report.AnalysisResult{}, false, nil
	}
	return result, true, nil
}

func (s LocalStore) Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError {
	path, err := s.store(result)
	if err != nil {
		recordStorageError(s.metadataSink, "LocalStore.Store", result.NormalizedURL(), err)
		return err
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactAnalysisFile,
		path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, path),
			metadata.NewAttr(metadata.AttrURL, result.NormalizedURL()),
		},
	)
	return nil
}

func (s LocalStore) store(result report.AnalysisResult) (string, *StorageError) {
	path, err := s.PathFor(result.NormalizedURL())
	if err != nil {
		return "", err
	}

	if dirErr := fileutil.EnsureDir(s.outputDir); dirErr != nil {
		return "", &StorageError{
			Message: dirErr.Error(),
			Cause:   ErrCausePathError,
			Path:    s.outputDir,
		}
	}

	content, jsonErr := json.MarshalIndent(result, "", "  ")
	if jsonErr != nil {
		return "", &StorageError{
			Message: jsonErr.Error(),
			Cause:   ErrCauseEncodeFailure,
			Path:    path,
		}
	}

	if writeErr := fileutil.WriteFileAtomic(path, content); writeErr != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		var fileErr *fileutil.FileError
		if errors.As(writeErr, &fileErr) && fileErr.Cause == fileutil.ErrCauseDiskFull {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return "", &StorageError{
			Message:   writeErr.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
		}
	}
	return path, nil
}
