package thread_test

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/talk-parser/internal/lang"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/stretchr/testify/require"
)

// errorRecordingSink is a test double that keeps the causes of recorded errors
type errorRecordingSink struct {
	causes []metadata.ErrorCause
}

func (e *errorRecordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	e.causes = append(e.causes, cause)
}

func (e *errorRecordingSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (e *errorRecordingSink) RecordSegmentation(title string, topics int, replies int, duration time.Duration) {
}

func (e *errorRecordingSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
}

const (
	stamp1 = "10:00, 1 January 2020 (UTC)"
	stamp2 = "11:00, 1 January 2020 (UTC)"
	stamp3 = "12:00, 1 January 2020 (UTC)"
)

func parseDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<!DOCTYPE html><html><head></head><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return doc
}

func segment(t *testing.T, body string, language string) thread.Result {
	t.Helper()
	s := thread.NewSegmenter(&metadata.NoopSink{}, lang.Default())
	result, err := s.Segment(parseDoc(t, body), language)
	require.Nil(t, err)
	return result
}

func section(content string) string {
	return "<section>" + content + "</section>"
}
