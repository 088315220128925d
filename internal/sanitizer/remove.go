package sanitizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removeNoise drops every element matching NoiseSelectors, plus comments,
// and returns how many nodes were removed.
func removeNoise(root *html.Node) int {
	doc := goquery.NewDocumentFromNode(root)
	removed := 0
	for _, selector := range NoiseSelectors {
		sel := doc.Find(selector)
		removed += sel.Length()
		sel.Remove()
	}
	return removed + removeComments(root)
}

func removeComments(node *html.Node) int {
	removed := 0
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			node.RemoveChild(child)
			removed++
		} else {
			removed += removeComments(child)
		}
		child = next
	}
	return removed
}

// removeEmptyNodesBottomUp performs a post-order traversal to remove empty inline wrappers.
// This ensures nested empty wrappers are fully cleaned (innermost first).
// Block elements stay even when empty: list items keep their sibling positions.
func removeEmptyNodesBottomUp(node *html.Node) int {
	if node == nil {
		return 0
	}

	// We need to be careful because removing nodes affects the linked list
	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}

	removed := 0
	for _, child := range children {
		removed += removeEmptyNodesBottomUp(child)
	}

	if node.Type == html.ElementNode && isEmptyNode(node) && shouldRemoveEmptyElement(node.Data) {
		if node.Parent != nil {
			if node.FirstChild != nil {
				// keep the word boundary the blank text provided
				node.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: " "}, node)
			}
			node.Parent.RemoveChild(node)
			removed++
		}
	}
	return removed
}

// isEmptyNode reports whether node has no element children and only blank text.
func isEmptyNode(node *html.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return false
			}
		}
	}
	return true
}

// shouldRemoveEmptyElement returns true if an empty element of this type should be removed.
// Only inline wrappers qualify. An empty anchor stays: it renders as its link target.
func shouldRemoveEmptyElement(tag string) bool {
	inlineWrappers := map[string]bool{
		"span": true, "font": true, "b": true, "i": true, "u": true, "s": true,
		"em": true, "strong": true, "small": true, "big": true, "sup": true,
		"sub": true, "del": true, "ins": true, "strike": true, "code": true,
		"kbd": true, "var": true, "q": true, "abbr": true, "bdi": true,
	}
	return inlineWrappers[tag]
}
