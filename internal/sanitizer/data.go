package sanitizer

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type SanitizedHTMLDoc struct {
	contentNode  *html.Node
	removedNodes int
}

func (s *SanitizedHTMLDoc) GetContentNode() *html.Node {
	return s.contentNode
}

// RemovedNodes counts the noise elements and empty wrappers that were dropped.
func (s *SanitizedHTMLDoc) RemovedNodes() int {
	return s.removedNodes
}

// Document wraps the content node for selector queries.
func (s *SanitizedHTMLDoc) Document() *goquery.Document {
	return goquery.NewDocumentFromNode(s.contentNode)
}

// NewSanitizedHTMLDoc creates a SanitizedHTMLDoc for testing purposes.
// The fields remain private to maintain immutability.
func NewSanitizedHTMLDoc(contentNode *html.Node, removedNodes int) SanitizedHTMLDoc {
	return SanitizedHTMLDoc{
		contentNode:  contentNode,
		removedNodes: removedNodes,
	}
}

// NoiseSelectors match elements that never carry discussion content.
//
//nolint:gochecknoglobals // This is a static lookup table that must be global
var NoiseSelectors = []string{
	"script",
	"style",
	"noscript",
	"template",
	"link",
	"meta",
	".mw-editsection",
	".mw-empty-elt",
	".noprint",
	".mw-jump-link",
	"#toc",
	".toc",
}
