package sanitizer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/extractor"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	metadata.NoopSink
	errors []recordedError
}

type recordedError struct {
	timestamp   time.Time
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errors = append(m.errors, recordedError{
		timestamp:   observedAt,
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

// extractForTest runs the extractor over a fixture string.
func extractForTest(t *testing.T, input string) extractor.ExtractionResult {
	t.Helper()
	ext := extractor.NewDomExtractor(nil)
	result, err := ext.Extract("Talk:Test", []byte(input))
	require.Nil(t, err)
	return result
}

// renderChildrenForTest serializes the children of node, without node itself.
func renderChildrenForTest(node *html.Node) string {
	if node == nil {
		return ""
	}
	var buf strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
