package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

// Document is one rendered page ready to be persisted.
type Document struct {
	language string
	title    string
	kind     metadata.ArtifactKind
	content  []byte
}

// NewJSONDocument encodes result as {"topics": [...]} with a two-space indent.
func NewJSONDocument(language string, title string, result thread.Result) (Document, failure.ClassifiedError) {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return Document{}, &StorageError{
			Message:   fmt.Sprintf("encode %q: %v", title, err),
			Retryable: false,
			Cause:     ErrCauseEncodeFailure,
		}
	}
	return Document{
		language: language,
		title:    title,
		kind:     metadata.ArtifactThreadJSON,
		content:  append(content, '\n'),
	}, nil
}

func NewMarkdownDocument(language string, title string, content []byte) Document {
	return Document{
		language: language,
		title:    title,
		kind:     metadata.ArtifactThreadMarkdown,
		content:  content,
	}
}

func (d Document) Language() string {
	return d.language
}

func (d Document) Title() string {
	return d.title
}

func (d Document) Kind() metadata.ArtifactKind {
	return d.kind
}

func (d Document) Content() []byte {
	return d.content
}

// identity is the string hashed into the artifact filename.
func (d Document) identity() string {
	return d.language + ":" + d.title
}

func (d Document) extension() string {
	if d.kind == metadata.ArtifactThreadMarkdown {
		return ".md"
	}
	return ".json"
}

// Persistence

type WriteResult struct {
	titleHash   string // identity (filename without extension)
	path        string
	contentHash string
}

func NewWriteResult(
	titleHash string,
	path string,
	contentHash string,
) WriteResult {
	return WriteResult{
		titleHash:   titleHash,
		path:        path,
		contentHash: contentHash,
	}
}

func (w *WriteResult) TitleHash() string {
	return w.titleHash
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}
