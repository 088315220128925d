// Package render turns DOM subtrees into the restricted markup used for
// topic headings and reply bodies.
package render

import (
	"html"
	"net/url"
	"path"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SkipFunc reports whether a descendant should be left out of the output.
// It is never consulted for the root passed to a render call.
type SkipFunc func(n *nethtml.Node) bool

type mode int

const (
	modeMarkup mode = iota
	modeAnchors
	modeText
)

// HTML renders n into restricted markup.
func HTML(n *nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	renderNode(&b, n, skip, modeMarkup, true)
	return b.String()
}

// AnchorsAndText renders n keeping only anchors; every other element is
// reduced to its text.
func AnchorsAndText(n *nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	renderNode(&b, n, skip, modeAnchors, true)
	return b.String()
}

// Text returns the unescaped text content of n.
func Text(n *nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	renderNode(&b, n, skip, modeText, true)
	return b.String()
}

// Nodes renders a sequence of sibling nodes into restricted markup.
func Nodes(nodes []*nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n, skip, modeMarkup, false)
	}
	return b.String()
}

// NodesText returns the unescaped text content of a sequence of sibling nodes.
func NodesText(nodes []*nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n, skip, modeText, false)
	}
	return b.String()
}

// NodesAnchorsAndText is AnchorsAndText over a sequence of sibling nodes.
func NodesAnchorsAndText(nodes []*nethtml.Node, skip SkipFunc) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n, skip, modeAnchors, false)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *nethtml.Node, skip SkipFunc, m mode, root bool) {
	switch n.Type {
	case nethtml.TextNode:
		if m == modeText {
			b.WriteString(n.Data)
		} else {
			b.WriteString(html.EscapeString(n.Data))
		}
		return
	case nethtml.DocumentNode:
		renderChildren(b, n, skip, m)
		return
	case nethtml.ElementNode:
	default:
		return
	}

	if !root && skip != nil && skip(n) {
		return
	}
	if dropped[n.DataAtom] {
		return
	}

	if n.DataAtom == atom.Br {
		switch m {
		case modeMarkup:
			b.WriteString("<br>")
		case modeText:
			b.WriteString("\n")
		}
		return
	}

	if m == modeText {
		renderChildren(b, n, skip, m)
		return
	}

	if n.DataAtom == atom.A {
		renderAnchor(b, n, skip, m)
		return
	}

	if m == modeAnchors {
		renderChildren(b, n, skip, m)
		return
	}

	tag := n.DataAtom
	if sub, ok := substituted[tag]; ok {
		tag = sub
	}
	if !preserved[tag] {
		renderChildren(b, n, skip, m)
		return
	}

	b.WriteString("<" + tag.String() + ">")
	renderChildren(b, n, skip, m)
	b.WriteString("</" + tag.String() + ">")
}

func renderChildren(b *strings.Builder, n *nethtml.Node, skip SkipFunc, m mode) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, skip, m, false)
	}
}

func renderAnchor(b *strings.Builder, n *nethtml.Node, skip SkipFunc, m mode) {
	href := attr(n, "href")

	var inner strings.Builder
	renderChildren(&inner, n, skip, m)
	content := inner.String()
	if strings.TrimSpace(content) == "" {
		name := fileName(href)
		if name == "" {
			return
		}
		content = "[" + html.EscapeString(name) + "]"
	}

	b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
	b.WriteString(content)
	b.WriteString("</a>")
}

// fileName returns the last path segment of href without any namespace
// prefix, e.g. "./File:Example.jpg" gives "Example.jpg".
func fileName(href string) string {
	if href == "" {
		return ""
	}
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	if _, after, found := strings.Cut(base, ":"); found && after != "" {
		base = after
	}
	return base
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
