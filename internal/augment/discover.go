package augment

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pders01/copycode/internal/dom"
)

// Highlighter container classes whose code elements are also candidates
var highlightClasses = []string{"codehilite", "highlight"}

// SkipReason explains why a candidate was not decorated
type SkipReason string

const (
	SkipNone SkipReason = ""
	// SkipInline is code whose nearest container is not a <pre>
	SkipInline SkipReason = "inline"
	// SkipDecorated is a <pre> that already has a copy control
	SkipDecorated SkipReason = "decorated"
	// SkipDuplicate is a second <code> inside a <pre> already claimed
	SkipDuplicate SkipReason = "duplicate"
)

// Candidate is a code element found by discovery
type Candidate struct {
	Code *html.Node
	// Pre is the enclosing <pre>, or the code's parent when there is none
	Pre    *html.Node
	Reason SkipReason
}

// Eligible reports whether the candidate should get a control
func (c Candidate) Eligible() bool {
	return c.Reason == SkipNone
}

// Discover lists code elements that are inside a <pre> or a highlighter
// container, in document order, and decides for each one whether it can be
// decorated.
func Discover(root *html.Node) []Candidate {
	codes := dom.FindAll(root, func(n *html.Node) bool {
		if n.DataAtom != atom.Code {
			return false
		}
		if dom.Closest(n.Parent, atom.Pre) != nil {
			return true
		}
		for _, cls := range highlightClasses {
			if dom.HasAncestorClass(n, cls) {
				return true
			}
		}
		return false
	})

	claimed := make(map[*html.Node]bool)
	var out []Candidate
	for _, code := range codes {
		pre := dom.Closest(code, atom.Pre)
		if pre == nil {
			pre = code.Parent
		}

		c := Candidate{Code: code, Pre: pre}
		switch {
		case !dom.IsElement(pre, atom.Pre):
			c.Reason = SkipInline
		case decorated(pre):
			c.Reason = SkipDecorated
		case claimed[pre]:
			c.Reason = SkipDuplicate
		}
		if c.Eligible() {
			claimed[pre] = true
		}
		out = append(out, c)
	}
	return out
}

// decorated reports whether pre already carries a control, either inside it
// or through a wrapper it was moved into.
func decorated(pre *html.Node) bool {
	isButton := func(n *html.Node) bool { return dom.HasClass(n, ButtonClass) }
	if dom.Contains(pre, isButton) {
		return true
	}
	return dom.HasClass(pre.Parent, WrapperClass)
}
