/*
Responsibilities
- Remove elements that never carry discussion content
- Strip every attribute except anchor targets
- Remove empty inline wrappers left behind

This stage runs before segmentation so reply markup and fingerprints
only depend on the discussion content itself.
*/
package sanitizer

import (
	"errors"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/extractor"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/render"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"golang.org/x/net/html"
)

type HtmlSanitizer struct {
	metadataSink metadata.MetadataSink
}

func NewHTMLSanitizer(metadataSink metadata.MetadataSink) HtmlSanitizer {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return HtmlSanitizer{
		metadataSink: metadataSink,
	}
}

func (h *HtmlSanitizer) Sanitize(
	title string,
	extractionResult extractor.ExtractionResult,
) (SanitizedHTMLDoc, failure.ClassifiedError) {
	sanitizedHtmlDoc, err := sanitize(extractionResult.ContentNode)
	if err != nil {
		var sanitizationError *SanitizationError
		errors.As(err, &sanitizationError)
		h.metadataSink.RecordError(
			time.Now(),
			"sanitizer",
			"HtmlSanitizer.Sanitize",
			mapSanitizationErrorToMetadataCause(sanitizationError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrTitle, title),
			},
		)
		return SanitizedHTMLDoc{}, sanitizationError
	}
	return sanitizedHtmlDoc, nil
}

func sanitize(contentNode *html.Node) (SanitizedHTMLDoc, error) {
	if contentNode == nil || contentNode.Type != html.ElementNode {
		return SanitizedHTMLDoc{}, &SanitizationError{
			Message:   "content node is missing or not an element",
			Retryable: false,
			Cause:     ErrCauseBrokenDOM,
		}
	}

	removed := removeNoise(contentNode)
	render.PruneAttributes(contentNode)
	removed += removeEmptyNodesBottomUp(contentNode)

	if contentNode.FirstChild == nil {
		return SanitizedHTMLDoc{}, &SanitizationError{
			Message:   "nothing left after removing noise",
			Retryable: false,
			Cause:     ErrCauseEmptyResult,
		}
	}

	return SanitizedHTMLDoc{
		contentNode:  contentNode,
		removedNodes: removed,
	}, nil
}
