package render

import (
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PruneAttributes removes every attribute under root except the href of anchors.
func PruneAttributes(root *nethtml.Node) {
	walk(root, func(n *nethtml.Node) {
		if n.Type != nethtml.ElementNode || len(n.Attr) == 0 {
			return
		}
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if n.DataAtom == atom.A && a.Namespace == "" && a.Key == "href" {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	})
}

// NormalizeLineBreakWrappers replaces every element whose only non-blank
// child is a <br> with that <br>. Nested wrappers collapse bottom-up, so
// <p><span><br></span></p> becomes a single <br>.
func NormalizeLineBreakWrappers(root *nethtml.Node) {
	var visit func(n *nethtml.Node)
	visit = func(n *nethtml.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			visit(c)
			c = next
		}
		if n.Type != nethtml.ElementNode || keepsWrapper[n.DataAtom] || n.Parent == nil {
			return
		}
		br := soleLineBreak(n)
		if br == nil {
			return
		}
		n.RemoveChild(br)
		n.Parent.InsertBefore(br, n)
		n.Parent.RemoveChild(n)
	}
	visit(root)
}

func soleLineBreak(n *nethtml.Node) *nethtml.Node {
	var found *nethtml.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == nethtml.TextNode && strings.TrimSpace(c.Data) == "":
			continue
		case c.Type == nethtml.CommentNode:
			continue
		case c.Type == nethtml.ElementNode && c.DataAtom == atom.Br && found == nil:
			found = c
		default:
			return nil
		}
	}
	return found
}

func walk(n *nethtml.Node, fn func(*nethtml.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
