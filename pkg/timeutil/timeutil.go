package timeutil

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// ComputeJitter returns a uniformly distributed duration in [0, max).
// Non-positive max yields zero.
func ComputeJitter(max time.Duration, rng *rand.Rand) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// ExponentialBackoffDelay computes initial * multiplier^(count-1), capped at the
// configured maximum, plus jitter.
// A backoffCount below 1 is treated as the first backoff.
func ExponentialBackoffDelay(
	backoffCount int,
	jitter time.Duration,
	rng *rand.Rand,
	param BackoffParam,
) time.Duration {
	if backoffCount < 1 {
		backoffCount = 1
	}

	delay := float64(param.initialDuration) * math.Pow(param.multiplier, float64(backoffCount-1))
	if param.maxDuration > 0 && delay > float64(param.maxDuration) {
		delay = float64(param.maxDuration)
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay) + ComputeJitter(jitter, rng)
}

// SleepContext waits for d or until ctx is done, whichever happens first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
