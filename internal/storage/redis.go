package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

const RedisKeyPrefix = "geo:analysis:"

// RedisStore keeps results in Redis under RedisKeyPrefix + normalized URL.
// Entries expire after ttl, so stale results age out on their own.
type RedisStore struct {
	metadataSink metadata.MetadataSink
	client       *redis.Client
	ttl          time.Duration
}

func NewRedisStore(
	metadataSink metadata.MetadataSink,
	client *redis.Client,
	ttl time.Duration,
) RedisStore {
	return RedisStore{
		metadataSink: metadataSink,
		client:       client,
		ttl:          ttl,
	}
}

func (s RedisStore) Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError) {
	payload, err := s.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return report.AnalysisResult{}, false, nil
	}
	if err != nil {
		storageErr := &StorageError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseBackendUnavailable,
		}
		recordStorageError(s.metadataSink, "RedisStore.Lookup", key, storageErr)
		return report.AnalysisResult{}, false, storageErr
	}

	var result report.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		storageErr := &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseDecodeFailure,
		}
		recordStorageError(s.metadataSink, "RedisStore.Lookup", key, storageErr)
		return report.AnalysisResult{}, false, storageErr
	}
	return result, true, nil
}

func (s RedisStore) Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError {
	key := result.NormalizedURL()
	payload, err := json.Marshal(result)
	if err != nil {
		storageErr := &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseEncodeFailure,
		}
		recordStorageError(s.metadataSink, "RedisStore.Store", key, storageErr)
		return storageErr
	}

	if err := s.client.Set(ctx, RedisKeyPrefix+key, payload, s.ttl).Err(); err != nil {
		storageErr := &StorageError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseBackendUnavailable,
		}
		recordStorageError(s.metadataSink, "RedisStore.Store", key, storageErr)
		return storageErr
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactAnalysisKey,
		RedisKeyPrefix+key,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrStoreKey, RedisKeyPrefix+key),
			metadata.NewAttr(metadata.AttrURL, key),
		},
	)
	return nil
}
