package render_test

import (
	"strings"
	"testing"

	"github.com/rohmanhakim/talk-parser/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func bodyHTML(t *testing.T, root *html.Node) string {
	t.Helper()
	var body *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	require.NotNil(t, body)

	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&sb, c))
	}
	return sb.String()
}

func TestNormalizeLineBreakWrappers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraph wrapping a break",
			input:    `<p>a</p><p><br></p><p>b</p>`,
			expected: `<p>a</p><br/><p>b</p>`,
		},
		{
			name:     "nested wrappers collapse",
			input:    `<div><span> <br> </span></div>`,
			expected: `<br/>`,
		},
		{
			name:     "wrapper with text is kept",
			input:    `<p>text<br></p>`,
			expected: `<p>text<br/></p>`,
		},
		{
			name:     "wrapper with two breaks is kept",
			input:    `<p><br><br></p>`,
			expected: `<p><br/><br/></p>`,
		},
		{
			name:     "sections are never collapsed",
			input:    `<section><br></section>`,
			expected: `<section><br/></section>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := html.Parse(strings.NewReader("<html><body>" + tt.input + "</body></html>"))
			require.NoError(t, err)

			render.NormalizeLineBreakWrappers(root)

			assert.Equal(t, tt.expected, bodyHTML(t, root))
		})
	}
}

func TestPruneAttributes(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<html><body><p id="x" class="y"><a href="./A" rel="mw:WikiLink">A</a><img src="i.png"></p></body></html>`))
	require.NoError(t, err)

	render.PruneAttributes(root)

	assert.Equal(t, `<p><a href="./A">A</a><img/></p>`, bodyHTML(t, root))
}
