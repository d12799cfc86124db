package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

// StyleBlocks returns all <style> elements in document order. Blocks inside
// inline <svg> are included, they style the whole document as well.
func StyleBlocks(root *html.Node) []*html.Node {
	var blocks []*html.Node
	for n := range Elements(root) {
		if Is(n, atom.Style) && (n.Namespace == "" || n.Namespace == "svg") {
			blocks = append(blocks, n)
		}
	}
	return blocks
}

// StyleText returns raw stylesheet text of a <style> element.
func StyleText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// RemoveNodes detaches nodes from their parents.
func RemoveNodes(nodes []*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// Lang returns language of the document from the lang attribute of the root
// element (html), or language.Und when absent or unparsable.
func Lang(root *html.Node) language.Tag {
	for n := range Elements(root) {
		if n.DataAtom != atom.Html {
			continue
		}
		if v, ok := GetAttr(n, "lang"); ok {
			if tag, err := language.Parse(strings.TrimSpace(v)); err == nil {
				return tag
			}
		}
		break
	}
	return language.Und
}

// NormalizeCharset rewrites <meta> charset declarations to utf-8, which is
// what Render produces. Returns true if anything was changed.
func NormalizeCharset(root *html.Node) bool {
	changed := false
	for n := range Elements(root) {
		if n.DataAtom != atom.Meta {
			continue
		}
		if v, ok := GetAttr(n, "charset"); ok && !strings.EqualFold(v, "utf-8") {
			SetAttr(n, "charset", "utf-8")
			changed = true
		}
		if v, ok := GetAttr(n, "http-equiv"); ok && strings.EqualFold(strings.TrimSpace(v), "content-type") {
			if c, ok := GetAttr(n, "content"); ok && !strings.EqualFold(c, "text/html; charset=utf-8") {
				SetAttr(n, "content", "text/html; charset=utf-8")
				changed = true
			}
		}
	}
	return changed
}
