package limiter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/talk-parser/pkg/timeutil"
)

// RateLimiter keeps requests to the same content backend host spaced apart.
// Responsibilities:
// - Bookkeep each hostname's last fetch timestamp
// - Grow a per-host backoff after failures, reset it after success
// - Compute the remaining delay before the next request to a host
type RateLimiter interface {
	Backoff(host string)
	ResetBackoff(host string)
	MarkLastFetchAsNow(host string)
	ResolveDelay(host string) time.Duration
}

var _ RateLimiter = (*ConcurrentRateLimiter)(nil)

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

func NewConcurrentRateLimiter(
	baseDelay time.Duration,
	jitter time.Duration,
	randomSeed int64,
	backoffParam timeutil.BackoffParam,
) *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		baseDelay:    baseDelay,
		jitter:       jitter,
		backoffParam: backoffParam,
		hostTimings:  make(map[string]hostTiming),
		rng:          rand.New(rand.NewSource(randomSeed)),
		now:          time.Now,
	}
}

// Backoff increments the failure counter of host and recomputes its backoff delay.
func (r *ConcurrentRateLimiter) Backoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.backoffCount++
	timing.backoffDelay = timeutil.ExponentialBackoffDelay(timing.backoffCount, 0, nil, r.backoffParam)
	r.hostTimings[host] = timing
}

// ResetBackoff clears the backoff state of host after a successful request.
func (r *ConcurrentRateLimiter) ResetBackoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing, exists := r.hostTimings[host]
	if !exists {
		return
	}
	timing.backoffCount = 0
	timing.backoffDelay = 0
	r.hostTimings[host] = timing
}

func (r *ConcurrentRateLimiter) MarkLastFetchAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.lastFetchAt = r.now()
	r.hostTimings[host] = timing
}

// ResolveDelay returns how long the caller must wait before requesting host.
// A host that was never fetched is not delayed.
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	r.mu.RLock()
	timing, exists := r.hostTimings[host]
	base := r.baseDelay
	jitter := r.jitter
	r.mu.RUnlock()

	if !exists || timing.lastFetchAt.IsZero() {
		return 0
	}

	r.rngMu.Lock()
	jitterValue := timeutil.ComputeJitter(jitter, r.rng)
	r.rngMu.Unlock()

	finalDelay := timeutil.MaxDuration([]time.Duration{base, timing.backoffDelay}) + jitterValue
	elapsed := r.now().Sub(timing.lastFetchAt)
	if elapsed < finalDelay {
		return finalDelay - elapsed
	}
	return 0
}

// HostTiming returns a copy of the bookkeeping for host.
func (r *ConcurrentRateLimiter) HostTiming(host string) (hostTiming, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	timing, exists := r.hostTimings[host]
	return timing, exists
}
