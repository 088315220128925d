package extractor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sectionize moves the children of content into <section> elements, opening a
// new section at every heading block. Content before the first heading forms
// the lead section. It reports whether anything was wrapped.
func sectionize(content *html.Node) bool {
	var children []*html.Node
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	if len(children) == 0 {
		return false
	}

	var current *html.Node
	for _, c := range children {
		if current == nil || isHeadingBlock(c) {
			current = &html.Node{
				Type:     html.ElementNode,
				Data:     "section",
				DataAtom: atom.Section,
			}
			content.InsertBefore(current, c)
		}
		content.RemoveChild(c)
		current.AppendChild(c)
	}
	return true
}

// isHeadingBlock matches bare headings and the <div class="mw-heading"> wrappers
// newer MediaWiki versions put around them.
func isHeadingBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	case atom.Div:
		for _, a := range n.Attr {
			if a.Key == "class" && hasClass(a.Val, "mw-heading") {
				return true
			}
		}
	}
	return false
}

func hasClass(classAttr string, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
