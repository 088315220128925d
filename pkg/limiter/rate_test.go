package limiter

import (
	"sync"
	"testing"
	"time"

	"github.com/rohmanhakim/talk-parser/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(base time.Duration) (*ConcurrentRateLimiter, *time.Time) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewConcurrentRateLimiter(base, 0, 1, timeutil.NewBackoffParam(time.Second, 2.0, 8*time.Second))
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestResolveDelay_UnknownHostIsNotDelayed(t *testing.T) {
	l, _ := newTestLimiter(time.Second)
	assert.Equal(t, time.Duration(0), l.ResolveDelay("en.wikipedia.org"))
}

func TestResolveDelay_RemainingBaseDelay(t *testing.T) {
	l, clock := newTestLimiter(time.Second)
	l.MarkLastFetchAsNow("en.wikipedia.org")

	*clock = clock.Add(300 * time.Millisecond)
	assert.Equal(t, 700*time.Millisecond, l.ResolveDelay("en.wikipedia.org"))

	*clock = clock.Add(time.Second)
	assert.Equal(t, time.Duration(0), l.ResolveDelay("en.wikipedia.org"))
}

func TestBackoff_GrowsAndResets(t *testing.T) {
	l, _ := newTestLimiter(0)
	host := "de.wikipedia.org"

	l.Backoff(host)
	l.Backoff(host)
	timing, ok := l.HostTiming(host)
	require.True(t, ok)
	assert.Equal(t, 2, timing.BackoffCount())
	assert.Equal(t, 2*time.Second, timing.BackoffDelay())

	l.MarkLastFetchAsNow(host)
	assert.Equal(t, 2*time.Second, l.ResolveDelay(host))

	l.ResetBackoff(host)
	timing, _ = l.HostTiming(host)
	assert.Equal(t, 0, timing.BackoffCount())
	assert.Equal(t, time.Duration(0), l.ResolveDelay(host))
}

func TestConcurrentAccess(t *testing.T) {
	l := NewConcurrentRateLimiter(10*time.Millisecond, 5*time.Millisecond, 3, timeutil.NewBackoffParam(time.Millisecond, 2.0, time.Second))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			host := []string{"a.example", "b.example"}[i%2]
			l.MarkLastFetchAsNow(host)
			l.Backoff(host)
			_ = l.ResolveDelay(host)
			l.ResetBackoff(host)
		}(i)
	}
	wg.Wait()

	_, ok := l.HostTiming("a.example")
	assert.True(t, ok)
}
