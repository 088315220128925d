package thread

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func mustParse(t *testing.T, body string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return root
}

func firstSection(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Section {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := firstSection(c); s != nil {
			return s
		}
	}
	return nil
}

func TestCollectUnits_ReverseDocumentOrder(t *testing.T) {
	root := mustParse(t, `<section><h2>H</h2><p>one</p><ul><li>two<p>three</p></li></ul><section><p>nested</p></section><pre>four</pre></section>`)

	units := collectUnits(firstSection(root))

	var got []string
	for _, u := range units {
		got = append(got, u.html())
	}
	assert.Equal(t, []string{"four", "three", "two", "one"}, got)
}

func TestCollectUnits_SplitsOnlySplittableKinds(t *testing.T) {
	root := mustParse(t, `<section><p>a<br>b</p><ul><li>c<br>d</li></ul><blockquote>e<br><br>f</blockquote></section>`)

	units := collectUnits(firstSection(root))

	var got []string
	for _, u := range units {
		got = append(got, u.html())
	}
	assert.Equal(t, []string{"f", "e", "c<br>d", "b", "a"}, got)
}

func TestHeadingOf_IgnoresNestedSections(t *testing.T) {
	root := mustParse(t, `<section><p>lead</p><section><h3>nested</h3></section></section>`)
	assert.Nil(t, headingOf(firstSection(root)))

	root = mustParse(t, `<section><div><h4>deep</h4></div></section>`)
	h := headingOf(firstSection(root))
	require.NotNil(t, h)
	assert.Equal(t, 4, headingLevel(h))
}

func TestEndsWithSignature_Timestamp(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "Agreed. 16:09, 17 June 2019 (UTC)", want: true},
		{text: "Agreed. 17 June 2019 (UTC)", want: true},
		{text: "Agreed. 16:09, 17 June 2019 (CEST)", want: true},
		{text: "Agreed. 16:09, 17 June 2019 (UTC) thanks", want: false},
		{text: "Back in 1999 (UTC)", want: false},
		{text: "Version 2019 (u)", want: false},
		{text: "no signature", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, hasTimestamp(tt.text))
		})
	}
}
