package lang

import "strings"

// Namespaces holds the localized names of the user and user talk namespaces
// for one language.
type Namespaces struct {
	user     string
	userTalk string
}

func NewNamespaces(user string, userTalk string) Namespaces {
	return Namespaces{
		user:     normalizeName(user),
		userTalk: normalizeName(userTalk),
	}
}

func (n Namespaces) User() string {
	return n.user
}

func (n Namespaces) UserTalk() string {
	return n.userTalk
}

// IsUserPage reports whether title lives in the user or user talk namespace,
// either under its localized name or its English canonical name.
func (n Namespaces) IsUserPage(title string) bool {
	ns, _, found := strings.Cut(title, ":")
	if !found {
		return false
	}
	ns = normalizeName(ns)
	for _, candidate := range []string{n.user, n.userTalk, english.user, english.userTalk} {
		if candidate != "" && strings.EqualFold(ns, candidate) {
			return true
		}
	}
	return false
}

var english = Namespaces{user: "User", userTalk: "User talk"}

type tableEntry struct {
	User     string `yaml:"user"`
	UserTalk string `yaml:"user_talk"`
}

func normalizeName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
