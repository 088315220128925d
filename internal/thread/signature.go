package thread

import (
	"html"
	"regexp"
	"strings"

	"github.com/rohmanhakim/talk-parser/internal/lang"
	"github.com/rohmanhakim/talk-parser/pkg/urlutil"
)

var (
	// "16:09, 17 June 2019 (UTC)" and friends: a year or a clock time
	// followed by a parenthesized zone abbreviation.
	timestampPattern = regexp.MustCompile(`\b(?:2\d{3}|\d{2}:\d{2})[\s\x{00A0}]+\([A-Z]{2,5}\)$`)

	trailingAnchorPattern = regexp.MustCompile(`<a href="([^"]*)">[^<]*</a>$`)
)

func endsWithSignature(u unit, ns lang.Namespaces) bool {
	if hasTimestamp(strings.TrimSpace(u.text())) {
		return true
	}
	return endsWithUserLink(strings.TrimSpace(u.anchorsAndText()), ns)
}

func hasTimestamp(text string) bool {
	return timestampPattern.MatchString(text)
}

// endsWithUserLink reports whether stripped, the anchors-and-text rendering of
// a unit, ends exactly with a link to a user or user talk page.
func endsWithUserLink(stripped string, ns lang.Namespaces) bool {
	m := trailingAnchorPattern.FindStringSubmatch(stripped)
	if m == nil {
		return false
	}
	title, ok := urlutil.TitleFromHref(html.UnescapeString(m[1]))
	if !ok {
		return false
	}
	return ns.IsUserPage(title)
}
