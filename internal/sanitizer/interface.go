package sanitizer

import (
	"github.com/rohmanhakim/talk-parser/internal/extractor"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

// Sanitizer defines the interface for HTML sanitization.
// Implementations must leave a DOM that only carries content markup.
type Sanitizer interface {
	// Sanitize cleans the extracted content node in place and returns it,
	// or a ClassifiedError if the document cannot be sanitized.
	Sanitize(title string, extractionResult extractor.ExtractionResult) (SanitizedHTMLDoc, failure.ClassifiedError)
}

// Compile-time interface check
var _ Sanitizer = (*HtmlSanitizer)(nil)
