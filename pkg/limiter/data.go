package limiter

import "time"

// pacing state of one host
type hostTiming struct {
	lastRequestAt time.Time
	backoffDelay  time.Duration
	backoffCount  int
}

func (h hostTiming) LastRequestAt() time.Time {
	return h.lastRequestAt
}

func (h hostTiming) BackoffDelay() time.Duration {
	return h.backoffDelay
}

func (h hostTiming) BackoffCount() int {
	return h.backoffCount
}
