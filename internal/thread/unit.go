package thread

import (
	"strings"

	"github.com/rohmanhakim/talk-parser/internal/render"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// candidates are the elements that may hold a reply fragment.
var candidates = map[atom.Atom]bool{
	atom.P:          true,
	atom.Li:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Pre:        true,
	atom.Blockquote: true,
	atom.Center:     true,
}

// splittable candidates are broken up at their <br> children.
var splittable = map[atom.Atom]bool{
	atom.P:          true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Blockquote: true,
	atom.Center:     true,
}

var listContainers = map[atom.Atom]bool{
	atom.Ul: true,
	atom.Ol: true,
	atom.Dl: true,
}

var headings = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

// unit is one raw reply fragment: either a whole candidate element or a
// line-delimited group of its children.
type unit struct {
	element *html.Node
	section *html.Node
	nodes   []*html.Node
}

func (u unit) whole() bool {
	return u.nodes == nil
}

// skipNested leaves out content that forms units of its own or belongs to
// another topic.
func skipNested(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return candidates[n.DataAtom] ||
		listContainers[n.DataAtom] ||
		headings[n.DataAtom] ||
		n.DataAtom == atom.Table ||
		n.DataAtom == atom.Section
}

func (u unit) html() string {
	if u.whole() {
		return render.HTML(u.element, skipNested)
	}
	return render.Nodes(u.nodes, skipNested)
}

func (u unit) text() string {
	if u.whole() {
		return render.Text(u.element, skipNested)
	}
	return render.NodesText(u.nodes, skipNested)
}

func (u unit) anchorsAndText() string {
	if u.whole() {
		return render.AnchorsAndText(u.element, skipNested)
	}
	return render.NodesAnchorsAndText(u.nodes, skipNested)
}

// collectUnits returns the units owned by section, in reverse document order.
// Nested sections are skipped rather than detached, so the tree is left intact.
func collectUnits(section *html.Node) []unit {
	var units []unit
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Section {
				continue
			}
			if candidates[c.DataAtom] {
				units = append(units, splitUnit(c, section)...)
			}
			visit(c)
		}
	}
	visit(section)

	for i, j := 0, len(units)-1; i < j; i, j = i+1, j-1 {
		units[i], units[j] = units[j], units[i]
	}
	return units
}

func splitUnit(el *html.Node, section *html.Node) []unit {
	if !splittable[el.DataAtom] || !hasLineBreakChild(el) {
		return []unit{{element: el, section: section}}
	}

	var units []unit
	var group []*html.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			units = appendGroup(units, el, section, group)
			group = nil
			continue
		}
		group = append(group, c)
	}
	return appendGroup(units, el, section, group)
}

func appendGroup(units []unit, el *html.Node, section *html.Node, group []*html.Node) []unit {
	if len(group) == 0 {
		return units
	}
	return append(units, unit{element: el, section: section, nodes: group})
}

func hasLineBreakChild(el *html.Node) bool {
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			return true
		}
	}
	return false
}

// headingOf returns the first heading owned by section, or nil.
func headingOf(section *html.Node) *html.Node {
	var found *html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom == atom.Section {
				continue
			}
			if headings[c.DataAtom] {
				found = c
				return
			}
			visit(c)
		}
	}
	visit(section)
	return found
}

func headingLevel(h *html.Node) int {
	return int(h.Data[1] - '0')
}

func foldLineBreaks(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
}
