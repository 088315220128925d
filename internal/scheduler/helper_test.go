package scheduler_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/config"
	"github.com/rohmanhakim/talk-parser/internal/fetcher"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/scheduler"
	"github.com/rohmanhakim/talk-parser/internal/storage"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"github.com/rohmanhakim/talk-parser/pkg/hashutil"
	"github.com/rohmanhakim/talk-parser/pkg/retry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// talkPageHTML is a minimal Parsoid-style talk page with one topic and a reply
const talkPageHTML = `<!DOCTYPE html>
<html><head><title>Talk:Foo</title></head>
<body class="mw-body-content mw-parser-output">
<section data-mw-section-id="1"><h2 id="Hello">Hello<span class="mw-editsection">edit</span></h2>
<p>First post. <a href="./User:Ann" title="User:Ann">Ann</a></p>
<dl><dd>A reply. <a href="./User:Bob">Bob</a></dd></dl>
</section>
</body></html>`

// createSchedulerForTest creates a scheduler with mocked collaborators
// and a sleep function that never waits
func createSchedulerForTest(
	t *testing.T,
	ctx context.Context,
	mockFinalizer *mockFinalizer,
	metadataSink metadata.MetadataSink,
	mockLimiter *rateLimiterMock,
	mockFetcher *fetcherMock,
	storageSink storage.Sink,
) *scheduler.Scheduler {
	t.Helper()
	s := scheduler.NewSchedulerWithDeps(ctx, mockFinalizer, metadataSink, mockLimiter, mockFetcher, storageSink)
	s.SetSleepForTest(func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	})
	return &s
}

func buildConfigForTest(t *testing.T, titles []string) config.Config {
	t.Helper()
	cfg, err := config.WithDefault("en").
		WithTitles(titles).
		WithBaseURL("https://en.example.org/page/html/").
		WithOutputDir(t.TempDir()).
		Build()
	require.NoError(t, err)
	return cfg
}

// mockFinalizer is a test double that captures final run statistics
type mockFinalizer struct {
	recordedStats *capturedStats
}

type capturedStats struct {
	totalPages  int
	totalErrors int
	totalTopics int
	duration    time.Duration
}

func newMockFinalizer(t *testing.T) *mockFinalizer {
	t.Helper()
	return &mockFinalizer{
		recordedStats: nil,
	}
}

func (m *mockFinalizer) RecordFinalRunStats(
	totalPages int,
	totalErrors int,
	totalTopics int,
	duration time.Duration,
) {
	m.recordedStats = &capturedStats{
		totalPages:  totalPages,
		totalErrors: totalErrors,
		totalTopics: totalTopics,
		duration:    duration,
	}
}

// rateLimiterMock is a testify mock for the RateLimiter
type rateLimiterMock struct {
	mock.Mock
}

// newRateLimiterMockForTest creates a rate limiter mock accepting every call
func newRateLimiterMockForTest(t *testing.T) *rateLimiterMock {
	t.Helper()
	m := new(rateLimiterMock)
	m.On("Backoff", mock.Anything).Return()
	m.On("ResetBackoff", mock.Anything).Return()
	m.On("MarkLastFetchAsNow", mock.Anything).Return()
	m.On("ResolveDelay", mock.Anything).Return(time.Duration(0))
	return m
}

func (m *rateLimiterMock) Backoff(host string) {
	m.Called(host)
}

func (m *rateLimiterMock) ResetBackoff(host string) {
	m.Called(host)
}

func (m *rateLimiterMock) MarkLastFetchAsNow(host string) {
	m.Called(host)
}

func (m *rateLimiterMock) ResolveDelay(host string) time.Duration {
	args := m.Called(host)
	return args.Get(0).(time.Duration)
}

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, fetchParam, retryParam)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

func fetchResultForTest(rawURL string, body string) fetcher.FetchResult {
	u, _ := url.Parse(rawURL)
	return fetcher.NewFetchResult(*u, []byte(body), 200, "text/html; charset=utf-8")
}

// storageSinkMock is a testify mock for storage.Sink
type storageSinkMock struct {
	mock.Mock
}

func (s *storageSinkMock) Write(
	outputDir string,
	doc storage.Document,
	hashAlgo hashutil.HashAlgo,
) (storage.WriteResult, failure.ClassifiedError) {
	args := s.Called(outputDir, doc, hashAlgo)
	result := args.Get(0).(storage.WriteResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

func newStorageSinkMockForTest(t *testing.T) *storageSinkMock {
	t.Helper()
	m := new(storageSinkMock)
	m.On("Write", mock.Anything, mock.Anything, mock.Anything).
		Return(storage.NewWriteResult("abc123def456", "/out/abc123def456.json", "hash"), nil)
	return m
}

// segmentationRecordingSink counts segmentation records and errors
type segmentationRecordingSink struct {
	metadata.NoopSink
	segmentedTitles []string
	errorCount      int
}

func (s *segmentationRecordingSink) RecordSegmentation(title string, topics int, replies int, duration time.Duration) {
	s.segmentedTitles = append(s.segmentedTitles, title)
}

func (s *segmentationRecordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.errorCount++
}
