package mdconvert

// Representation

type ConversionResult struct {
	markdownContent []byte
	topicCount      int
	replyCount      int
}

func NewConversionResult(
	markdownContent []byte,
	topicCount int,
	replyCount int,
) ConversionResult {
	return ConversionResult{
		markdownContent: markdownContent,
		topicCount:      topicCount,
		replyCount:      replyCount,
	}
}

func (c *ConversionResult) GetMarkdownContent() []byte {
	return c.markdownContent
}

func (c *ConversionResult) GetTopicCount() int {
	return c.topicCount
}

func (c *ConversionResult) GetReplyCount() int {
	return c.replyCount
}

// maxHeadingLevel is the deepest heading Markdown can express.
const maxHeadingLevel = 6
