package lang

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FallbackLanguage is used whenever a requested language has no entry.
const FallbackLanguage = "en"

//go:embed namespaces.yaml
var embeddedNamespaces []byte

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Table resolves language codes to their namespace names.
// Resolved entries are memoized; entries never change once cached.
type Table struct {
	entries map[string]Namespaces

	mu    sync.RWMutex
	cache map[string]Namespaces
}

// Default returns the process-wide table built from the embedded namespace list.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := NewTable(embeddedNamespaces)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// NewTable parses a YAML document mapping language codes to
// {user, user_talk} pairs. The document must contain an English entry.
func NewTable(data []byte) (*Table, failure.ClassifiedError) {
	var raw map[string]tableEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LangError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseInvalidTable,
		}
	}

	entries := make(map[string]Namespaces, len(raw))
	for code, e := range raw {
		if e.User == "" || e.UserTalk == "" {
			return nil, &LangError{
				Message:   fmt.Sprintf("language %q has an empty namespace name", code),
				Retryable: false,
				Cause:     ErrCauseInvalidTable,
			}
		}
		entries[strings.ToLower(code)] = NewNamespaces(e.User, e.UserTalk)
	}
	if _, ok := entries[FallbackLanguage]; !ok {
		return nil, &LangError{
			Message:   fmt.Sprintf("no %q entry", FallbackLanguage),
			Retryable: false,
			Cause:     ErrCauseMissingEntry,
		}
	}

	return &Table{
		entries: entries,
		cache:   make(map[string]Namespaces),
	}, nil
}

// Lookup returns the namespaces for code. Tags with a region or script
// ("pt-BR", "zh_Hant") fall back to their base language, deprecated codes
// ("iw") to their replacement, and unknown languages to English.
func (t *Table) Lookup(code string) Namespaces {
	key := strings.ToLower(strings.TrimSpace(code))

	t.mu.RLock()
	ns, ok := t.cache[key]
	t.mu.RUnlock()
	if ok {
		return ns
	}

	ns = t.resolve(key)

	t.mu.Lock()
	t.cache[key] = ns
	t.mu.Unlock()
	return ns
}

// Languages reports how many languages the table knows.
func (t *Table) Languages() int {
	return len(t.entries)
}

func (t *Table) resolve(key string) Namespaces {
	if ns, ok := t.entries[key]; ok {
		return ns
	}
	if tag, err := language.Parse(key); err == nil {
		base, _ := tag.Base()
		if ns, ok := t.entries[base.String()]; ok {
			return ns
		}
	}
	return t.entries[FallbackLanguage]
}
