package fetcher

import (
	"context"

	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
