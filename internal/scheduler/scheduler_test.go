package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/rohmanhakim/talk-parser/internal/config"
	"github.com/rohmanhakim/talk-parser/internal/fetcher"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/scheduler"
	"github.com/rohmanhakim/talk-parser/internal/storage"
	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/rohmanhakim/talk-parser/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteFetch_ProcessesEveryTitle(t *testing.T) {
	ctx := context.Background()
	mockFinalizer := newMockFinalizer(t)
	sink := &segmentationRecordingSink{}
	mockLimiter := newRateLimiterMockForTest(t)
	mockFetcher := new(fetcherMock)
	mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(fetchResultForTest("https://en.example.org/page/html/Talk:Foo", talkPageHTML), nil)
	mockStorage := newStorageSinkMockForTest(t)

	s := createSchedulerForTest(t, ctx, mockFinalizer, sink, mockLimiter, mockFetcher, mockStorage)
	cfg := buildConfigForTest(t, []string{"Talk:Foo", "Talk:Bar"})

	execution, err := s.ExecuteFetch(cfg)

	require.NoError(t, err)
	require.Len(t, execution.Pages, 2)
	assert.Len(t, execution.WriteResults, 2)
	assert.Equal(t, 0, execution.TotalErrors)
	assert.Equal(t, "Talk:Foo", execution.Pages[0].Title)
	assert.Equal(t, "Talk:Bar", execution.Pages[1].Title)

	topics := execution.Pages[0].Result.Topics
	require.Len(t, topics, 1)
	assert.Equal(t, "Hello", topics[0].HTML)
	require.Len(t, topics[0].Replies, 2)
	assert.Equal(t, 0, topics[0].Replies[0].Depth)
	assert.Equal(t, 1, topics[0].Replies[1].Depth)

	assert.Equal(t, []string{"Talk:Foo", "Talk:Bar"}, sink.segmentedTitles)
	assert.Equal(t, 0, sink.errorCount)

	mockLimiter.AssertCalled(t, "ResolveDelay", "en.example.org")
	mockLimiter.AssertNumberOfCalls(t, "MarkLastFetchAsNow", 2)
	mockLimiter.AssertNumberOfCalls(t, "ResetBackoff", 2)
	mockLimiter.AssertNotCalled(t, "Backoff", mock.Anything)
	mockStorage.AssertNumberOfCalls(t, "Write", 2)

	require.NotNil(t, mockFinalizer.recordedStats)
	assert.Equal(t, 2, mockFinalizer.recordedStats.totalPages)
	assert.Equal(t, 0, mockFinalizer.recordedStats.totalErrors)
	assert.Equal(t, 2, mockFinalizer.recordedStats.totalTopics)
}

func TestExecuteFetch_BuildsPageURLFromTitle(t *testing.T) {
	ctx := context.Background()
	mockFetcher := new(fetcherMock)
	mockFetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(p fetcher.FetchParam) bool {
		u := p.URL()
		return u.String() == "https://en.example.org/page/html/Talk:Foo_bar%2FArchive_1"
	}), mock.Anything).
		Return(fetchResultForTest("https://en.example.org/page/html/Talk:Foo_bar%2FArchive_1", talkPageHTML), nil)

	s := createSchedulerForTest(t, ctx, newMockFinalizer(t), &metadata.NoopSink{},
		newRateLimiterMockForTest(t), mockFetcher, newStorageSinkMockForTest(t))
	cfg := buildConfigForTest(t, []string{"Talk:Foo bar/Archive 1"})

	execution, err := s.ExecuteFetch(cfg)

	require.NoError(t, err)
	assert.Len(t, execution.Pages, 1)
	mockFetcher.AssertExpectations(t)
}

func TestExecuteFetch_FetchErrors(t *testing.T) {
	tests := []struct {
		name          string
		fetchErr      *fetcher.FetchError
		expectBackoff bool
	}{
		{
			name: "recoverable server error grows backoff",
			fetchErr: &fetcher.FetchError{
				Message:   "503",
				Retryable: true,
				Cause:     fetcher.ErrCauseRequest5xx,
			},
			expectBackoff: true,
		},
		{
			name: "missing page is skipped",
			fetchErr: &fetcher.FetchError{
				Message:   "404",
				Retryable: false,
				Cause:     fetcher.ErrCausePageNotFound,
			},
			expectBackoff: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockFinalizer := newMockFinalizer(t)
			mockLimiter := newRateLimiterMockForTest(t)
			mockFetcher := new(fetcherMock)
			mockFetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(p fetcher.FetchParam) bool {
				u := p.URL()
				return u.Path == "/page/html/Talk:Missing"
			}), mock.Anything).Return(fetcher.FetchResult{}, tt.fetchErr)
			mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
				Return(fetchResultForTest("https://en.example.org/page/html/Talk:Foo", talkPageHTML), nil)

			s := createSchedulerForTest(t, ctx, mockFinalizer, &metadata.NoopSink{},
				mockLimiter, mockFetcher, newStorageSinkMockForTest(t))
			cfg := buildConfigForTest(t, []string{"Talk:Missing", "Talk:Foo"})

			execution, err := s.ExecuteFetch(cfg)

			require.NoError(t, err)
			assert.Len(t, execution.Pages, 1)
			assert.Equal(t, 1, execution.TotalErrors)
			if tt.expectBackoff {
				mockLimiter.AssertCalled(t, "Backoff", "en.example.org")
			} else {
				mockLimiter.AssertNotCalled(t, "Backoff", mock.Anything)
			}
			require.NotNil(t, mockFinalizer.recordedStats)
			assert.Equal(t, 1, mockFinalizer.recordedStats.totalErrors)
		})
	}
}

func TestExecuteFetch_FatalStorageErrorAborts(t *testing.T) {
	ctx := context.Background()
	mockFinalizer := newMockFinalizer(t)
	mockFetcher := new(fetcherMock)
	mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(fetchResultForTest("https://en.example.org/page/html/Talk:Foo", talkPageHTML), nil)
	mockStorage := new(storageSinkMock)
	storageErr := &storage.StorageError{
		Message:   "permission denied",
		Retryable: false,
		Cause:     storage.ErrCauseWriteFailure,
	}
	mockStorage.On("Write", mock.Anything, mock.Anything, mock.Anything).
		Return(storage.WriteResult{}, storageErr)

	s := createSchedulerForTest(t, ctx, mockFinalizer, &metadata.NoopSink{},
		newRateLimiterMockForTest(t), mockFetcher, mockStorage)
	cfg := buildConfigForTest(t, []string{"Talk:Foo", "Talk:Bar"})

	_, err := s.ExecuteFetch(cfg)

	require.Error(t, err)
	var target *storage.StorageError
	assert.True(t, errors.As(err, &target))
	mockFetcher.AssertNumberOfCalls(t, "Fetch", 1)
	require.NotNil(t, mockFinalizer.recordedStats)
	assert.Equal(t, 1, mockFinalizer.recordedStats.totalErrors)
}

func TestExecuteFetch_NoTitles(t *testing.T) {
	ctx := context.Background()
	mockFinalizer := newMockFinalizer(t)
	sink := &segmentationRecordingSink{}
	mockFetcher := new(fetcherMock)

	s := createSchedulerForTest(t, ctx, mockFinalizer, sink,
		newRateLimiterMockForTest(t), mockFetcher, newStorageSinkMockForTest(t))
	cfg := buildConfigForTest(t, nil)

	_, err := s.ExecuteFetch(cfg)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, 1, sink.errorCount)
	mockFetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	assert.NotNil(t, mockFinalizer.recordedStats)
}

func TestExecuteFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mockFetcher := new(fetcherMock)

	s := createSchedulerForTest(t, ctx, newMockFinalizer(t), &metadata.NoopSink{},
		newRateLimiterMockForTest(t), mockFetcher, newStorageSinkMockForTest(t))
	cfg := buildConfigForTest(t, []string{"Talk:Foo"})

	_, err := s.ExecuteFetch(cfg)

	assert.ErrorIs(t, err, context.Canceled)
	mockFetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteParse_MarkdownFormat(t *testing.T) {
	ctx := context.Background()
	mockStorage := new(storageSinkMock)
	mockStorage.On("Write", mock.Anything, mock.MatchedBy(func(doc storage.Document) bool {
		return doc.Kind() == metadata.ArtifactThreadMarkdown && doc.Title() == "Talk:Foo"
	}), hashutil.HashAlgoSHA256).Return(storage.NewWriteResult("a", "b.md", "c"), nil)

	s := createSchedulerForTest(t, ctx, newMockFinalizer(t), &metadata.NoopSink{},
		newRateLimiterMockForTest(t), new(fetcherMock), mockStorage)
	cfg, err := config.WithDefault("en").WithFormat(config.FormatMarkdown).Build()
	require.NoError(t, err)

	execution, runErr := s.ExecuteParse(cfg, "Talk:Foo", []byte(talkPageHTML))

	require.NoError(t, runErr)
	assert.Len(t, execution.Pages, 1)
	mockStorage.AssertExpectations(t)
}

func TestExecuteParse_WritesJSONArtifact(t *testing.T) {
	ctx := context.Background()
	mockFinalizer := newMockFinalizer(t)
	localSink := storage.NewLocalSink(nil, nil, false)

	s := createSchedulerForTest(t, ctx, mockFinalizer, &metadata.NoopSink{},
		newRateLimiterMockForTest(t), new(fetcherMock), &localSink)
	cfg := buildConfigForTest(t, nil)

	execution, err := s.ExecuteParse(cfg, "Talk:Foo", []byte(talkPageHTML))

	require.NoError(t, err)
	require.Len(t, execution.WriteResults, 1)
	content, readErr := os.ReadFile(execution.WriteResults[0].Path())
	require.NoError(t, readErr)

	var decoded thread.Result
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, execution.Pages[0].Result, decoded)
	assert.Equal(t, 1, mockFinalizer.recordedStats.totalPages)
	assert.Equal(t, 1, mockFinalizer.recordedStats.totalTopics)
}

func TestExecuteParse_NotHTML(t *testing.T) {
	ctx := context.Background()
	mockFinalizer := newMockFinalizer(t)
	mockStorage := new(storageSinkMock)

	s := createSchedulerForTest(t, ctx, mockFinalizer, &metadata.NoopSink{},
		newRateLimiterMockForTest(t), new(fetcherMock), mockStorage)
	cfg := buildConfigForTest(t, nil)

	_, err := s.ExecuteParse(cfg, "Talk:Foo", []byte("plain text"))

	require.Error(t, err)
	mockStorage.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, mockFinalizer.recordedStats.totalErrors)
}

func TestRunExecution_TotalTopics(t *testing.T) {
	execution := scheduler.RunExecution{
		Pages: []scheduler.PageOutcome{
			{Result: thread.Result{Topics: make([]thread.Topic, 2)}},
			{Result: thread.Result{Topics: make([]thread.Topic, 3)}},
		},
	}

	assert.Equal(t, 5, execution.TotalTopics())
}
