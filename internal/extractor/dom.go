package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse HTML into a DOM tree
- Isolate the rendered page content
- Give legacy article HTML the section structure the segmenter expects

Extraction Strategy
- Priority order:
	- Known content containers (KnownContentSelectors)
	- <body>
- When the content holds no <section>, its top-level children are grouped
  into sections starting at every heading.
*/

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
) DomExtractor {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return DomExtractor{
		metadataSink: metadataSink,
	}
}

func (d *DomExtractor) Extract(
	title string,
	htmlByte []byte,
) (ExtractionResult, failure.ClassifiedError) {
	result, err := d.extract(htmlByte)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"DomExtractor.Extract",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrTitle, title),
			},
		)
		return ExtractionResult{}, extractionError
	}
	return result, nil
}

func (d *DomExtractor) extract(htmlByte []byte) (ExtractionResult, error) {
	if !bytes.Contains(htmlByte, []byte("<")) {
		return ExtractionResult{}, &ExtractionError{
			Message:   "input contains no markup",
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return ExtractionResult{}, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	contentNode := findContentContainer(doc)
	if contentNode == nil || !hasContent(contentNode) {
		return ExtractionResult{}, &ExtractionError{
			Message:   "document has no content",
			Retryable: false,
			Cause:     ErrCauseNoContent,
		}
	}

	sectionized := false
	if goquery.NewDocumentFromNode(contentNode).Find("section").Length() == 0 {
		sectionized = sectionize(contentNode)
	}

	return ExtractionResult{
		DocumentRoot: doc,
		ContentNode:  contentNode,
		Sectionized:  sectionized,
	}, nil
}

// findContentContainer returns the first known content container, or <body>.
func findContentContainer(doc *html.Node) *html.Node {
	gqDoc := goquery.NewDocumentFromNode(doc)

	for _, group := range contentSelectorOrder {
		for _, selector := range KnownContentSelectors[group] {
			if sel := gqDoc.Find(selector).First(); sel.Length() > 0 {
				return sel.Nodes[0]
			}
		}
	}

	if body := gqDoc.Find("body").First(); body.Length() > 0 {
		return body.Nodes[0]
	}
	return nil
}

// hasContent reports whether n holds any element or non-blank text.
func hasContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return true
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return true
			}
		}
	}
	return false
}
