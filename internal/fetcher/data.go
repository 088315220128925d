package fetcher

import (
	"context"
	"net/url"

	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"github.com/rohmanhakim/talk-parser/pkg/retry"
)

// Fetcher retrieves the rendered HTML of one talk page.
type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}

// FetchParam names the page to fetch. The language doubles as the
// Accept-Language header so the wiki renders interface strings in it.
type FetchParam struct {
	pageURL   url.URL
	title     string
	language  string
	userAgent string
}

func NewFetchParam(pageURL url.URL, title string, language string, userAgent string) FetchParam {
	return FetchParam{
		pageURL:   pageURL,
		title:     title,
		language:  language,
		userAgent: userAgent,
	}
}

func (f FetchParam) URL() url.URL {
	return f.pageURL
}

func (f FetchParam) Title() string {
	return f.title
}

func (f FetchParam) Language() string {
	return f.language
}

type FetchResult struct {
	pageURL     url.URL
	body        []byte
	statusCode  int
	contentType string
}

func NewFetchResult(pageURL url.URL, body []byte, statusCode int, contentType string) FetchResult {
	return FetchResult{
		pageURL:     pageURL,
		body:        body,
		statusCode:  statusCode,
		contentType: contentType,
	}
}

func (f FetchResult) URL() url.URL {
	return f.pageURL
}

func (f FetchResult) Body() []byte {
	return f.body
}

func (f FetchResult) Code() int {
	return f.statusCode
}

func (f FetchResult) ContentType() string {
	return f.contentType
}

func (f FetchResult) SizeByte() uint64 {
	return uint64(len(f.body))
}
