package thread

// Reply is one reconstructed contribution inside a topic.
type Reply struct {
	HTML  string `json:"html"`
	Depth int    `json:"depth"`
	Sha   string `json:"sha"`
}

// Shas carries the topic-level fingerprints.
// Indicator ignores the topic id, so it only changes when the topic's own
// heading or replies change.
type Shas struct {
	HTML      string `json:"html"`
	Indicator string `json:"indicator"`
}

// Topic is one section of a talk page.
type Topic struct {
	// ID is the topic's position in the document. It shifts when an earlier
	// topic is added or removed upstream.
	ID      int     `json:"id"`
	HTML    string  `json:"html"`
	Depth   int     `json:"depth"`
	Replies []Reply `json:"replies"`
	Shas    Shas    `json:"shas"`
}

// Result is the outcome of segmenting one document.
type Result struct {
	Topics []Topic `json:"topics"`
}

// ReplyCount sums the replies of every topic.
func (r Result) ReplyCount() int {
	total := 0
	for _, t := range r.Topics {
		total += len(t.Replies)
	}
	return total
}

func (t Topic) isEmpty() bool {
	return t.HTML == "" && len(t.Replies) == 0
}
