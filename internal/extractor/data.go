package extractor

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractionResult holds the extraction outcome.
// DocumentRoot is the original parsed HTML document.
// ContentNode is the element holding the page content.
type ExtractionResult struct {
	DocumentRoot *html.Node
	ContentNode  *html.Node
	// Sectionized is set when sections were synthesized from headings
	// because the page carried none.
	Sectionized bool
}

// Document wraps the content node for selector queries.
func (r ExtractionResult) Document() *goquery.Document {
	return goquery.NewDocumentFromNode(r.ContentNode)
}
