package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Topic and reply counts
- Artifact paths

Metadata is write-only.
No component may read metadata to influence pipeline decisions.
*/

/*
Recorder captures structured pipeline events and forwards them to a slog.Logger.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received.
*/
type Recorder struct {
	workerId string
	logger   *slog.Logger
}

// NewRecorder builds a Recorder writing to logger. A nil logger falls back to slog.Default().
func NewRecorder(workerId string, logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return Recorder{
		workerId: workerId,
		logger:   logger.With(slog.String("worker", workerId)),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	rec := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}
	args := []any{
		slog.String("package", rec.packageName),
		slog.String("action", rec.action),
		slog.String("cause", rec.cause.String()),
		slog.Time("observed_at", rec.observedAt),
		slog.String("error", rec.errorString),
	}
	r.logger.Error("pipeline error", append(args, attrsToArgs(rec.attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
	ev := FetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		retryCount:  retryCount,
	}
	r.logger.Info("fetch",
		slog.String(string(AttrURL), ev.fetchUrl),
		slog.Int(string(AttrHTTPStatus), ev.httpStatus),
		slog.Duration("duration", ev.duration),
		slog.String("content_type", ev.contentType),
		slog.Int("retry_count", ev.retryCount),
	)
}

func (r *Recorder) RecordSegmentation(title string, topics int, replies int, duration time.Duration) {
	r.logger.Info("segmented",
		slog.String(string(AttrTitle), title),
		slog.Int("topics", topics),
		slog.Int("replies", replies),
		slog.Duration("duration", duration),
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	rec := ArtifactRecord{kind: kind, path: path, attrs: attrs}
	args := []any{
		slog.String("kind", string(rec.kind)),
		slog.String(string(AttrWritePath), rec.path),
	}
	r.logger.Info("artifact", append(args, attrsToArgs(rec.attrs)...)...)
}

/*
RecordFinalRunStats records a terminal, derived summary of a completed run.

Contract:
  - MUST be called exactly once per run.
  - The provided stats MUST be derived from scheduler state,
    not accumulated incrementally via the recorder.
*/
func (r *Recorder) RecordFinalRunStats(
	totalPages int,
	totalErrors int,
	totalTopics int,
	duration time.Duration,
) {
	stats := runStats{
		totalPages:  totalPages,
		totalErrors: totalErrors,
		totalTopics: totalTopics,
		durationMs:  duration.Milliseconds(),
	}
	r.logger.Info("run finished",
		slog.Int("total_pages", stats.totalPages),
		slog.Int("total_errors", stats.totalErrors),
		slog.Int("total_topics", stats.totalTopics),
		slog.Int64("duration_ms", stats.durationMs),
	)
}

func attrsToArgs(attrs []Attribute) []any {
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, slog.String(string(a.Key), a.Value))
	}
	return args
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		retryCount int,
	)
	RecordSegmentation(title string, topics int, replies int, duration time.Duration)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type RunFinalizer interface {
	RecordFinalRunStats(
		totalPages int,
		totalErrors int,
		totalTopics int,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.Sink but does nothing
// Scheduler (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {

}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (n *NoopSink) RecordSegmentation(title string, topics int, replies int, duration time.Duration) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordFinalRunStats(totalPages int, totalErrors int, totalTopics int, duration time.Duration) {
}
