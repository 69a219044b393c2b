// Package dom holds the small set of tree operations the augmenter needs on
// top of golang.org/x/net/html.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document into a node tree
func Parse(r io.Reader) (*html.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return root, nil
}

// ParseString is Parse for in-memory documents
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the tree back to HTML
func Render(w io.Writer, root *html.Node) error {
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

// RenderString is Render into a string
func RenderString(root *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsElement reports whether n is an element with the given tag
func IsElement(n *html.Node, tag atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == tag
}

// NewElement creates a detached element with the given classes
func NewElement(tag atom.Atom, classes ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	if len(classes) > 0 {
		SetAttr(n, "class", strings.Join(classes, " "))
	}
	return n
}

// Attr returns the value of an attribute and whether it is present
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the class list of an element
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether the element carries class c
func HasClass(n *html.Node, c string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, cls := range Classes(n) {
		if cls == c {
			return true
		}
	}
	return false
}

// AddClass adds c to the class list if missing
func AddClass(n *html.Node, c string) {
	if HasClass(n, c) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), c), " "))
}

// RemoveClass drops every occurrence of c from the class list
func RemoveClass(n *html.Node, c string) {
	if !HasClass(n, c) {
		return
	}
	var kept []string
	for _, cls := range Classes(n) {
		if cls != c {
			kept = append(kept, cls)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// FindAll returns all descendant elements (n excluded) matching pred
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(d *html.Node) bool {
			if d.Type == html.ElementNode && pred(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Contains reports whether any descendant of n matches pred
func Contains(n *html.Node, pred func(*html.Node) bool) bool {
	return len(FindAll(n, pred)) > 0
}

// Closest returns the nearest ancestor of n (n itself included) with the given
// tag, or nil.
func Closest(n *html.Node, tag atom.Atom) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if IsElement(p, tag) {
			return p
		}
	}
	return nil
}

// HasAncestorClass reports whether some ancestor of n (n excluded) carries
// class c.
func HasAncestorClass(n *html.Node, c string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if HasClass(p, c) {
			return true
		}
	}
	return false
}

// TextContent concatenates every descendant text node verbatim
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(d *html.Node) bool {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces the children of n with a single text node
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Wrap inserts wrapper immediately before n, then moves n inside it
func Wrap(n, wrapper *html.Node) error {
	parent := n.Parent
	if parent == nil {
		return fmt.Errorf("cannot wrap a detached <%s>", n.Data)
	}
	parent.InsertBefore(wrapper, n)
	parent.RemoveChild(n)
	wrapper.AppendChild(n)
	return nil
}
