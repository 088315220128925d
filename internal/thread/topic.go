package thread

import (
	"strconv"
	"strings"

	"github.com/rohmanhakim/talk-parser/internal/lang"
	"github.com/rohmanhakim/talk-parser/internal/render"
	"github.com/rohmanhakim/talk-parser/pkg/hashutil"
	"golang.org/x/net/html"
)

// buildTopic reconstructs the replies directly owned by section.
func buildTopic(section *html.Node, ns lang.Namespaces) (Topic, error) {
	topic := Topic{
		Depth:   1,
		Replies: []Reply{},
	}
	if h := headingOf(section); h != nil {
		topic.Depth = headingLevel(h)
		topic.HTML = strings.TrimSpace(render.HTML(h, nil))
	}

	var replies []*reply
	for _, u := range collectUnits(section) {
		r, err := newReply(u, ns)
		if err != nil {
			return Topic{}, err
		}
		if r.html == "" {
			continue
		}
		replies = append(replies, r)
	}

	replies, err := consolidateLists(replies)
	if err != nil {
		return Topic{}, err
	}
	replies = chainReplies(replies)

	for i, j := 0, len(replies)-1; i < j; i, j = i+1, j-1 {
		replies[i], replies[j] = replies[j], replies[i]
	}
	normalizeDepths(replies)

	for _, r := range replies {
		topic.Replies = append(topic.Replies, Reply{
			HTML:  r.html,
			Depth: r.depth,
		})
	}
	return topic, nil
}

// normalizeDepths shifts depths so the first reply sits at depth 0.
func normalizeDepths(replies []*reply) {
	if len(replies) == 0 {
		return
	}
	base := replies[0].depth
	for _, r := range replies {
		r.depth -= base
		if r.depth < 0 {
			r.depth = 0
		}
	}
}

// addShas fingerprints the topic once its id and replies are final.
func (t Topic) addShas() Topic {
	replies := make([]Reply, len(t.Replies))
	var replyShas strings.Builder
	for i, r := range t.Replies {
		r.Sha = hashutil.Fingerprint(strconv.Itoa(i), r.HTML)
		replies[i] = r
		replyShas.WriteString(r.Sha)
	}
	t.Replies = replies
	t.Shas = Shas{
		HTML:      hashutil.Fingerprint(strconv.Itoa(t.ID), t.HTML),
		Indicator: hashutil.Fingerprint(t.HTML, replyShas.String()),
	}
	return t
}
