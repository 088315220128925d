package mdconvert_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

// renderMarkdown turns converted Markdown back into HTML with a CommonMark renderer.
func renderMarkdown(t *testing.T, markdown []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, goldmark.New().Convert(markdown, &buf))
	return buf.String()
}

func TestConvert_RendersAsNestedBlockquotes(t *testing.T) {
	tests := []struct {
		name            string
		replies         []thread.Reply
		wantBlockquotes int
	}{
		{
			name:            "flat replies",
			replies:         []thread.Reply{{HTML: "a", Depth: 0}, {HTML: "b", Depth: 0}},
			wantBlockquotes: 0,
		},
		{
			name:            "one level",
			replies:         []thread.Reply{{HTML: "a", Depth: 0}, {HTML: "b", Depth: 1}},
			wantBlockquotes: 1,
		},
		{
			name:            "two levels",
			replies:         []thread.Reply{{HTML: "a", Depth: 0}, {HTML: "b", Depth: 1}, {HTML: "c", Depth: 2}},
			wantBlockquotes: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := createTestRule()
			input := thread.Result{Topics: []thread.Topic{{HTML: "Topic", Depth: 2, Replies: tt.replies}}}

			result, err := rule.Convert("Talk:Test", input)
			require.Nil(t, err)

			rendered := renderMarkdown(t, result.GetMarkdownContent())
			assert.Contains(t, rendered, "<h2>Topic</h2>")
			assert.Equal(t, tt.wantBlockquotes, strings.Count(rendered, "<blockquote>"))
		})
	}
}
