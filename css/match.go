package css

import (
	"strings"

	"golang.org/x/net/html"

	"smover/htmldoc"
)

type memoKey struct {
	selector string
	step     int
	node     *html.Node
}

// Matcher decides whether selectors match elements. It remembers partial
// results so repeated ancestor checks for the same (selector, step, element)
// are done once. Matcher is bound to a single unmodified tree and is not safe
// for concurrent use.
type Matcher struct {
	memo map[memoKey]bool
}

// NewMatcher returns matcher with empty memo.
func NewMatcher() *Matcher {
	return &Matcher{memo: make(map[memoKey]bool)}
}

// Match reports whether sel matches element n.
func (m *Matcher) Match(sel Selector, n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || len(sel.Steps) == 0 {
		return false
	}
	return m.matchStep(sel, len(sel.Steps)-1, n)
}

func (m *Matcher) matchStep(sel Selector, i int, n *html.Node) bool {
	key := memoKey{selector: sel.Raw, step: i, node: n}
	if v, ok := m.memo[key]; ok {
		return v
	}
	v := m.evalStep(sel, i, n)
	m.memo[key] = v
	return v
}

func (m *Matcher) evalStep(sel Selector, i int, n *html.Node) bool {
	step := sel.Steps[i]
	if !step.Compound.Match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if step.Combinator == Child {
		p := htmldoc.ParentElement(n)
		return p != nil && m.matchStep(sel, i-1, p)
	}
	for p := htmldoc.ParentElement(n); p != nil; p = htmldoc.ParentElement(p) {
		if m.matchStep(sel, i-1, p) {
			return true
		}
	}
	return false
}

// Match reports whether element n satisfies every part of the compound.
func (c Compound) Match(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if c.Tag != "" && !strings.EqualFold(n.Data, c.Tag) {
		return false
	}
	if c.ID != "" {
		if id, ok := htmldoc.GetAttr(n, "id"); !ok || id != c.ID {
			return false
		}
	}
	for _, cls := range c.Classes {
		if !htmldoc.HasClass(n, cls) {
			return false
		}
	}
	return true
}
