// Package thread reconstructs talk page discussions from rendered page HTML.
//
// Wiki discussion markup has no explicit reply boundaries. They are inferred
// from section headings, list and definition-list nesting, line breaks and
// trailing signatures (a timestamp or a link to the author's user page).
package thread

import (
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/talk-parser/internal/lang"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/render"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

type Segmenter struct {
	metadataSink metadata.MetadataSink
	namespaces   *lang.Table
}

func NewSegmenter(
	metadataSink metadata.MetadataSink,
	namespaces *lang.Table,
) Segmenter {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	if namespaces == nil {
		namespaces = lang.Default()
	}
	return Segmenter{
		metadataSink: metadataSink,
		namespaces:   namespaces,
	}
}

// Segment splits doc into topics. doc is normalized in place first.
// A document without sections yields no topics.
func (s *Segmenter) Segment(
	doc *goquery.Document,
	languageCode string,
) (Result, failure.ClassifiedError) {
	result, err := segment(doc, s.namespaces.Lookup(languageCode))
	if err != nil {
		var threadError *ThreadError
		errors.As(err, &threadError)
		s.metadataSink.RecordError(
			time.Now(),
			"thread",
			"Segmenter.Segment",
			mapThreadErrorToMetadataCause(threadError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrLanguage, languageCode),
			},
		)
		return Result{}, threadError
	}
	return result, nil
}

func segment(doc *goquery.Document, ns lang.Namespaces) (Result, error) {
	for _, root := range doc.Nodes {
		render.NormalizeLineBreakWrappers(root)
	}

	sections := doc.Find("section").Nodes
	topics := make([]Topic, 0, len(sections))
	for id, section := range sections {
		topic, err := buildTopic(section, ns)
		if err != nil {
			return Result{}, fmt.Errorf("topic %d: %w", id, err)
		}
		topic.ID = id
		topic = topic.addShas()
		if topic.isEmpty() {
			continue
		}
		topics = append(topics, topic)
	}
	return Result{Topics: topics}, nil
}
