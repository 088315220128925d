package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// BackoffParam shapes an exponential backoff: the first delay, the growth
// factor per step and the ceiling. A zero ceiling leaves growth uncapped.
type BackoffParam struct {
	initialDuration time.Duration
	multiplier      float64
	maxDuration     time.Duration
}

func NewBackoffParam(initialDuration time.Duration, multiplier float64, maxDuration time.Duration) BackoffParam {
	return BackoffParam{
		initialDuration: initialDuration,
		multiplier:      multiplier,
		maxDuration:     maxDuration,
	}
}

func (b BackoffParam) InitialDuration() time.Duration { return b.initialDuration }
func (b BackoffParam) Multiplier() float64            { return b.multiplier }
func (b BackoffParam) MaxDuration() time.Duration     { return b.maxDuration }

// MaxDuration returns the largest duration in durations, or zero for an empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var longest time.Duration
	for _, d := range durations {
		if d > longest {
			longest = d
		}
	}
	return longest
}

// ComputeJitter returns a random duration in [0, max).
// A non-positive max yields zero.
func ComputeJitter(max time.Duration, rng *rand.Rand) time.Duration {
	if max <= 0 || rng == nil {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// ExponentialBackoffDelay computes the wait before retry number attempt (1-based):
// initial * multiplier^(attempt-1), capped at the configured maximum, plus jitter.
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng *rand.Rand,
	param BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(param.InitialDuration()) * math.Pow(param.Multiplier(), float64(attempt-1))
	if param.MaxDuration() > 0 && delay > float64(param.MaxDuration()) {
		delay = float64(param.MaxDuration())
	}
	return time.Duration(delay) + ComputeJitter(jitter, rng)
}
