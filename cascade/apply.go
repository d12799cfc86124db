package cascade

import (
	"golang.org/x/net/html"

	"smover/htmldoc"
)

// Apply writes resolved declarations into the style attribute of n and
// removes its class attribute. Empty declarations leave style attribute as it
// was, it is never set to an empty value.
func Apply(n *html.Node, decls *Declarations) {
	if decls.Len() > 0 {
		htmldoc.SetAttr(n, "style", decls.String())
	}
	htmldoc.RemoveAttr(n, "class")
}

// ApplyAll calls Apply for every element of the resolution.
func (r *Resolution) ApplyAll() {
	for _, n := range r.order {
		Apply(n, r.styles[n])
	}
}
