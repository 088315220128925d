package thread

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/talk-parser/internal/lang"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	lineBreak     = "<br>"
	indentMarker  = "&#8195;"
	paragraphSkip = lineBreak + lineBreak
)

// reply is the classified, possibly merged form of one or more units.
// The list flags and child index only matter while consolidating.
type reply struct {
	html              string
	depth             int
	isListItem        bool
	isListItemOrdered bool
	childIndex        int
	endsWithSig       bool
}

func newReply(u unit, ns lang.Namespaces) (*reply, error) {
	depth, err := unitDepth(u)
	if err != nil {
		return nil, err
	}

	r := &reply{
		html:       foldLineBreaks(u.html()),
		depth:      depth,
		childIndex: elementIndex(u.element),
	}
	if u.whole() && u.element.DataAtom == atom.Li {
		r.isListItem = true
		r.isListItemOrdered = u.element.Parent != nil && u.element.Parent.DataAtom == atom.Ol
	}
	r.endsWithSig = endsWithSignature(u, ns)
	return r, nil
}

// unitDepth counts list containers between the unit and its section.
// A definition term sits at the level of its own list, one above its descriptions.
func unitDepth(u unit) (int, error) {
	depth := 0
	for p := u.element.Parent; p != nil && p != u.section; p = p.Parent {
		if p.Type == html.ElementNode && listContainers[p.DataAtom] {
			depth++
		}
	}
	if u.element.DataAtom == atom.Dt {
		depth--
	}
	if depth < 0 {
		return 0, &ThreadError{
			Message:   fmt.Sprintf("<%s> resolved to depth %d", u.element.Data, depth),
			Retryable: false,
			Cause:     ErrCauseDepthUnderflow,
		}
	}
	return depth, nil
}

func elementIndex(n *html.Node) int {
	idx := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}

func startsList(s string) bool {
	return strings.HasPrefix(s, "<ul>") || strings.HasPrefix(s, "<ol>") || strings.HasPrefix(s, "<dl>")
}

// shouldCombineWith reports whether r, the enclosing item of a freshly
// wrapped list, should absorb that list.
func (r *reply) shouldCombineWith(list *reply) bool {
	return r.isListItem && !r.endsWithSig && r.depth == list.depth-1
}

// combineWith appends later onto r. A list followed by plain content is
// joined directly; everything else is separated by a paragraph break indented
// by the depth difference.
func (r *reply) combineWith(later *reply) {
	sep := ""
	if !(startsList(r.html) && !startsList(later.html)) {
		indent := later.depth - r.depth
		if indent < 0 {
			indent = 0
		}
		sep = paragraphSkip + strings.Repeat(indentMarker, indent)
	}
	r.html = r.html + sep + later.html
	r.endsWithSig = later.endsWithSig
}

// wrapList renders members, given in document order, as one list.
func wrapList(members []*reply, ordered bool) string {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	items := make([]string, len(members))
	for i, m := range members {
		items[i] = m.html
	}
	return "<" + tag + "><li>" + strings.Join(items, "</li><li>") + "</li></" + tag + ">"
}
