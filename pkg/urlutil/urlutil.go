package urlutil

import (
	"net/url"
	"strings"
)

// TitleFromHref extracts a wiki page title from a link target.
//
// Recognized forms:
//   - relative article links ("./User:Alice")
//   - path links ("/wiki/User_talk:Alice")
//   - absolute links ("https://en.wikipedia.org/wiki/User:Alice")
//   - index links carrying a title query ("/w/index.php?title=User:Alice&action=edit")
//
// The returned title is percent-decoded, has underscores mapped to spaces
// and carries no fragment. ok is false when no title can be derived.
func TitleFromHref(href string) (title string, ok bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if t := u.Query().Get("title"); t != "" {
		return normalizeTitle(t), true
	}

	path := u.EscapedPath()
	switch {
	case strings.HasPrefix(path, "./"):
		path = path[2:]
	case strings.HasPrefix(path, "/wiki/"):
		path = path[len("/wiki/"):]
	case u.Scheme == "" && u.Host == "" && !strings.HasPrefix(path, "/"):
		// bare relative title
	default:
		return "", false
	}

	decoded, err := url.PathUnescape(path)
	if err != nil || decoded == "" {
		return "", false
	}
	return normalizeTitle(decoded), true
}

// PageURL joins a page title onto a base endpoint, escaping it the way the
// rendering backend expects (spaces become underscores).
func PageURL(base string, title string) (url.URL, error) {
	escaped := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/" + escaped)
	if err != nil {
		return url.URL{}, err
	}
	return *u, nil
}

// HostKey returns the lowercase host of u, used to key per-host timing.
func HostKey(u url.URL) string {
	return lowerASCII(u.Host)
}

func normalizeTitle(t string) string {
	return strings.TrimSpace(strings.ReplaceAll(t, "_", " "))
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when the input is already lowercase.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
