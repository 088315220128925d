package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/config"
	"github.com/rohmanhakim/talk-parser/internal/extractor"
	"github.com/rohmanhakim/talk-parser/internal/fetcher"
	"github.com/rohmanhakim/talk-parser/internal/lang"
	"github.com/rohmanhakim/talk-parser/internal/mdconvert"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/sanitizer"
	"github.com/rohmanhakim/talk-parser/internal/storage"
	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"github.com/rohmanhakim/talk-parser/pkg/limiter"
	"github.com/rohmanhakim/talk-parser/pkg/retry"
	"github.com/rohmanhakim/talk-parser/pkg/timeutil"
	"github.com/rohmanhakim/talk-parser/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of a run.

 Pipeline stages may detect and classify failure, but must never decide
 retry, continuation, or abortion.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or run termination.

 Scheduler Responsibilities:
 - Walk the configured titles in order
 - Space requests per host through the rate limiter
 - Aggregate run statistics
 - The sole authority on:
	- retry
	- continue
	- abort

 Failure policy:
 - Fetch failures are scoped to one page: counted, then the next title runs.
   Recoverable ones also grow the host backoff.
 - Any later stage failure aborts the run when fatal, otherwise it is counted.
*/

type Scheduler struct {
	ctx            context.Context
	metadataSink   metadata.MetadataSink
	runFinalizer   metadata.RunFinalizer
	rateLimiter    limiter.RateLimiter
	htmlFetcher    fetcher.Fetcher
	domExtractor   extractor.DomExtractor
	htmlSanitizer  sanitizer.HtmlSanitizer
	segmenter      thread.Segmenter
	conversionRule mdconvert.ConvertRule
	storageSink    storage.Sink
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewScheduler wires the production pipeline for cfg.
// Artifacts written to "-" go to stdout.
func NewScheduler(
	ctx context.Context,
	cfg config.Config,
	recorder *metadata.Recorder,
	stdout io.Writer,
) Scheduler {
	rateLimiter := limiter.NewConcurrentRateLimiter(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		backoffParam(cfg),
	)
	htmlFetcher := fetcher.NewHtmlFetcher(recorder, cfg.Timeout())
	storageSink := storage.NewLocalSink(recorder, stdout, cfg.DryRun())
	return NewSchedulerWithDeps(ctx, recorder, recorder, rateLimiter, &htmlFetcher, &storageSink)
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for testing.
// This constructor allows tests to provide mock implementations of the
// metadata interfaces, the rate limiter, the fetcher and the storage sink.
func NewSchedulerWithDeps(
	ctx context.Context,
	runFinalizer metadata.RunFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	htmlFetcher fetcher.Fetcher,
	storageSink storage.Sink,
) Scheduler {
	return Scheduler{
		ctx:            ctx,
		metadataSink:   metadataSink,
		runFinalizer:   runFinalizer,
		rateLimiter:    rateLimiter,
		htmlFetcher:    htmlFetcher,
		domExtractor:   extractor.NewDomExtractor(metadataSink),
		htmlSanitizer:  sanitizer.NewHTMLSanitizer(metadataSink),
		segmenter:      thread.NewSegmenter(metadataSink, lang.Default()),
		conversionRule: mdconvert.NewRule(metadataSink),
		storageSink:    storageSink,
		sleep:          sleepContext,
	}
}

// ExecuteFetch retrieves every configured title from the content backend
// and runs it through the pipeline.
func (s *Scheduler) ExecuteFetch(cfg config.Config) (RunExecution, error) {
	runStartTime := time.Now()
	var execution RunExecution

	// Ensure final stats are recorded even if errors occur
	defer func() {
		s.runFinalizer.RecordFinalRunStats(
			len(execution.Pages),
			execution.TotalErrors,
			execution.TotalTopics(),
			time.Since(runStartTime),
		)
	}()

	if len(cfg.Titles()) == 0 {
		err := fmt.Errorf("%w: no titles configured", config.ErrInvalidConfig)
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"Scheduler.ExecuteFetch",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrField, "titles"),
			},
		)
		return execution, err
	}

	retryParam := retry.NewRetryParam(
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		backoffParam(cfg),
	)

	for _, title := range cfg.Titles() {
		if err := s.ctx.Err(); err != nil {
			return execution, err
		}

		pageURL, err := urlutil.PageURL(cfg.BaseURL(), title)
		if err != nil {
			execution.TotalErrors++
			s.metadataSink.RecordError(
				time.Now(),
				"scheduler",
				"Scheduler.ExecuteFetch",
				metadata.CauseContentInvalid,
				err.Error(),
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrTitle, title),
				},
			)
			continue
		}
		host := urlutil.HostKey(pageURL)

		if err := s.sleep(s.ctx, s.rateLimiter.ResolveDelay(host)); err != nil {
			return execution, err
		}

		fetchResult, fetchErr := s.htmlFetcher.Fetch(
			s.ctx,
			fetcher.NewFetchParam(pageURL, title, cfg.Language(), cfg.UserAgent()),
			retryParam,
		)
		s.rateLimiter.MarkLastFetchAsNow(host)
		if fetchErr != nil {
			// page-scoped: metadata already emitted by the fetcher
			if fetchErr.Severity() == failure.SeverityRecoverable || errors.Is(fetchErr, &retry.RetryError{}) {
				s.rateLimiter.Backoff(host)
			}
			execution.TotalErrors++
			continue
		}
		s.rateLimiter.ResetBackoff(host)

		outcome, pageErr := s.processPage(cfg, title, fetchResult.Body())
		if pageErr != nil {
			if pageErr.Severity() == failure.SeverityFatal {
				execution.TotalErrors++
				return execution, pageErr
			}
			execution.TotalErrors++
			continue
		}
		execution.Pages = append(execution.Pages, outcome)
		execution.WriteResults = append(execution.WriteResults, outcome.WriteResult)
	}

	return execution, nil
}

// ExecuteParse runs an already retrieved page through the pipeline.
func (s *Scheduler) ExecuteParse(cfg config.Config, title string, htmlByte []byte) (RunExecution, error) {
	runStartTime := time.Now()
	var execution RunExecution

	defer func() {
		s.runFinalizer.RecordFinalRunStats(
			len(execution.Pages),
			execution.TotalErrors,
			execution.TotalTopics(),
			time.Since(runStartTime),
		)
	}()

	outcome, err := s.processPage(cfg, title, htmlByte)
	if err != nil {
		execution.TotalErrors++
		return execution, err
	}
	execution.Pages = append(execution.Pages, outcome)
	execution.WriteResults = append(execution.WriteResults, outcome.WriteResult)
	return execution, nil
}

// processPage runs extract → sanitize → segment → render → store for one page.
func (s *Scheduler) processPage(
	cfg config.Config,
	title string,
	htmlByte []byte,
) (PageOutcome, failure.ClassifiedError) {
	// 1. Extract content root
	extractionResult, err := s.domExtractor.Extract(title, htmlByte)
	if err != nil {
		return PageOutcome{}, err
	}

	// 2. Sanitize extracted HTML
	sanitizedHtml, err := s.htmlSanitizer.Sanitize(title, extractionResult)
	if err != nil {
		return PageOutcome{}, err
	}

	// 3. Segment into topics and replies
	segmentStartTime := time.Now()
	result, err := s.segmenter.Segment(sanitizedHtml.Document(), cfg.Language())
	if err != nil {
		return PageOutcome{}, err
	}
	s.metadataSink.RecordSegmentation(title, len(result.Topics), result.ReplyCount(), time.Since(segmentStartTime))

	// 4. Render artifact
	doc, err := s.render(cfg, title, result)
	if err != nil {
		return PageOutcome{}, err
	}

	// 5. Write artifact
	writeResult, err := s.storageSink.Write(cfg.OutputDir(), doc, cfg.HashAlgo())
	if err != nil {
		return PageOutcome{}, err
	}

	return PageOutcome{
		Title:       title,
		Result:      result,
		WriteResult: writeResult,
	}, nil
}

func (s *Scheduler) render(
	cfg config.Config,
	title string,
	result thread.Result,
) (storage.Document, failure.ClassifiedError) {
	if cfg.Format() == config.FormatMarkdown {
		conversionResult, err := s.conversionRule.Convert(title, result)
		if err != nil {
			return storage.Document{}, err
		}
		return storage.NewMarkdownDocument(cfg.Language(), title, conversionResult.GetMarkdownContent()), nil
	}
	return storage.NewJSONDocument(cfg.Language(), title, result)
}

func backoffParam(cfg config.Config) timeutil.BackoffParam {
	return timeutil.NewBackoffParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffMultiplier(),
		cfg.BackoffMaxDuration(),
	)
}

// sleepContext waits for d, or returns early with the context error.
func sleepContext(ctx context.Context, d time.Duration) error {
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

// ---------------------------------------------------------------------------
// Test Helper Methods
// These methods are exported to enable testing of scheduler internals.
// They are not part of the public API.
// ---------------------------------------------------------------------------

// SetSleepForTest replaces the delay function used between requests.
func (s *Scheduler) SetSleepForTest(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}
