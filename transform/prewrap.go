package transform

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smover/htmldoc"
)

// DefaultPreClass is class name of elements wrapped by WrapPre when none is given.
const DefaultPreClass = "code-block"

// WrapPre moves the whole content of every element with class into a single
// new <pre> child. Void elements are left alone. Returns number of wrapped
// elements.
func WrapPre(root *html.Node, class string) (int, error) {
	if class == "" {
		class = DefaultPreClass
	}
	sel, err := cascadia.Compile("." + class)
	if err != nil {
		return 0, fmt.Errorf("invalid class name %q: %w", class, err)
	}

	var wrapped int
	for _, n := range sel.MatchAll(root) {
		if htmldoc.IsVoid(n) {
			continue
		}
		pre := &html.Node{Type: html.ElementNode, Data: "pre", DataAtom: atom.Pre}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			pre.AppendChild(c)
			c = next
		}
		n.AppendChild(pre)
		wrapped++
	}
	return wrapped, nil
}
