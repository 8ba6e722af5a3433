package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/geo-analyzer/pkg/timeutil"
)

// RateLimiter paces outgoing requests per host.
// Responsibilities:
// - Bookkeep each host's last request timestamp
// - Grow a per-host backoff while the host keeps throttling
// - Block a caller until the host may be contacted again
type RateLimiter interface {
	Wait(ctx context.Context, host string) error
	Backoff(host string)
	ResetBackoff(host string)
	MarkLastRequestAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type ConcurrentRateLimiter struct {
	mu           sync.RWMutex
	rngMu        sync.Mutex
	baseDelay    time.Duration
	jitter       time.Duration
	backoffParam timeutil.BackoffParam
	hostTimings  map[string]hostTiming
	rng          *rand.Rand
	now          func() time.Time
}

// NewConcurrentRateLimiter returns a limiter that keeps at least baseDelay
// (plus up to jitter) between two requests to the same host. A randomSeed
// of 0 seeds from the current time.
func NewConcurrentRateLimiter(
	baseDelay time.Duration,
	jitter time.Duration,
	randomSeed int64,
	backoffParam timeutil.BackoffParam,
) *ConcurrentRateLimiter {
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	return &ConcurrentRateLimiter{
		baseDelay:    baseDelay,
		jitter:       jitter,
		backoffParam: backoffParam,
		hostTimings:  make(map[string]hostTiming),
		rng:          rand.New(rand.NewSource(randomSeed)),
		now:          time.Now,
	}
}

// Wait sleeps until host may be contacted and marks the request.
func (r *ConcurrentRateLimiter) Wait(ctx context.Context, host string) error {
	if err := timeutil.SleepContext(ctx, r.ResolveDelay(host)); err != nil {
		return err
	}
	r.MarkLastRequestAsNow(host)
	return nil
}

// Backoff grows the backoff delay of host exponentially.
func (r *ConcurrentRateLimiter) Backoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.backoffCount++
	// jitter is applied once in ResolveDelay
	timing.backoffDelay = timeutil.ExponentialBackoffDelay(timing.backoffCount, 0, nil, r.backoffParam)
	r.hostTimings[host] = timing
}

func (r *ConcurrentRateLimiter) ResetBackoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing, ok := r.hostTimings[host]
	if !ok {
		return
	}
	timing.backoffCount = 0
	timing.backoffDelay = 0
	r.hostTimings[host] = timing
}

func (r *ConcurrentRateLimiter) MarkLastRequestAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.lastRequestAt = r.now()
	r.hostTimings[host] = timing
}

// ResolveDelay returns how long a caller still has to wait before the next
// request to host: max(baseDelay, backoff) + jitter minus the time already
// elapsed since the last request. A host never contacted waits zero.
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	r.mu.RLock()
	timing, ok := r.hostTimings[host]
	baseDelay := r.baseDelay
	jitter := r.jitter
	now := r.now()
	r.mu.RUnlock()

	if !ok || timing.lastRequestAt.IsZero() {
		return 0
	}

	delay := max(baseDelay, timing.backoffDelay) + r.computeJitter(jitter)
	remaining := delay - now.Sub(timing.lastRequestAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *ConcurrentRateLimiter) computeJitter(jitter time.Duration) time.Duration {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return timeutil.ComputeJitter(jitter, r.rng)
}

func (r *ConcurrentRateLimiter) BaseDelay() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseDelay
}

// HostTiming returns a copy of the pacing state of host.
func (r *ConcurrentRateLimiter) HostTiming(host string) (hostTiming, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	timing, ok := r.hostTimings[host]
	return timing, ok
}

// SetClockForTest replaces the clock used for elapsed time.
func (r *ConcurrentRateLimiter) SetClockForTest(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
