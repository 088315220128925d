package mdconvert

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/internal/thread"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
)

/*
Conversion Rules
- Each topic with a heading becomes an ATX heading of the topic depth (capped at ######)
- Each reply becomes a block nested in as many blockquote levels as its depth
- Reply and heading markup is converted with html-to-markdown (CommonMark)
- Topic and reply order preserved

The export is for reading only; fingerprints stay in the JSON artifact.
*/

// ConvertRule defines the interface for converting a segmented page to Markdown.
// Implementations must produce deterministic output.
type ConvertRule interface {
	Convert(title string, result thread.Result) (ConversionResult, failure.ClassifiedError)
}

// Compile-time interface check
var _ ConvertRule = (*ThreadConversionRule)(nil)

type ThreadConversionRule struct {
	metadataSink metadata.MetadataSink
	conv         *converter.Converter
}

func NewRule(metadataSink metadata.MetadataSink) *ThreadConversionRule {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &ThreadConversionRule{
		metadataSink: metadataSink,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (s *ThreadConversionRule) Convert(
	title string,
	result thread.Result,
) (ConversionResult, failure.ClassifiedError) {
	conversionResult, err := convert(s.conv, result)
	if err != nil {
		var conversionError *ConversionError
		errors.As(err, &conversionError)

		s.metadataSink.RecordError(
			time.Now(),
			"mdconvert",
			"ThreadConversionRule.Convert",
			mapConversionErrorToMetadataCause(conversionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrTitle, title),
			},
		)
		return ConversionResult{}, conversionError
	}
	return conversionResult, nil
}

// convert renders every topic in order and joins the blocks with blank lines.
func convert(conv *converter.Converter, result thread.Result) (ConversionResult, *ConversionError) {
	var blocks []string
	for _, topic := range result.Topics {
		if topic.Depth < 1 {
			return ConversionResult{}, &ConversionError{
				Message:   fmt.Sprintf("topic %d has depth %d", topic.ID, topic.Depth),
				Retryable: false,
				Cause:     ErrCauseInvalidStructure,
			}
		}

		if topic.HTML != "" {
			heading, err := convertInline(conv, topic.HTML)
			if err != nil {
				return ConversionResult{}, err
			}
			level := min(topic.Depth, maxHeadingLevel)
			blocks = append(blocks, strings.Repeat("#", level)+" "+heading)
		}

		for i, reply := range topic.Replies {
			if reply.Depth < 0 {
				return ConversionResult{}, &ConversionError{
					Message:   fmt.Sprintf("reply %d of topic %d has depth %d", i, topic.ID, reply.Depth),
					Retryable: false,
					Cause:     ErrCauseInvalidStructure,
				}
			}
			body, err := convertBlock(conv, reply.HTML)
			if err != nil {
				return ConversionResult{}, err
			}
			if body == "" {
				continue
			}
			blocks = append(blocks, quote(body, reply.Depth))
		}
	}

	markdown := ""
	if len(blocks) > 0 {
		markdown = strings.Join(blocks, "\n\n") + "\n"
	}
	return NewConversionResult([]byte(markdown), len(result.Topics), result.ReplyCount()), nil
}

func convertBlock(conv *converter.Converter, fragment string) (string, *ConversionError) {
	markdown, err := conv.ConvertString(fragment)
	if err != nil {
		return "", &ConversionError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
		}
	}
	return strings.TrimSpace(markdown), nil
}

// convertInline converts fragment and folds it onto a single line.
func convertInline(conv *converter.Converter, fragment string) (string, *ConversionError) {
	markdown, err := convertBlock(conv, fragment)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(markdown), " "), nil
}

// quote prefixes every line of body with depth blockquote markers.
func quote(body string, depth int) string {
	if depth == 0 {
		return body
	}
	prefix := strings.Repeat("> ", depth)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
