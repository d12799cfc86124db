// Package transform implements optional document rewrites performed together
// with style inlining.
package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"smover/htmldoc"
)

// CapitalizeHeadings normalizes case of words in h1-h5 headings: the first
// word gets upper-case first letter and lower-case rest, words which are all
// upper-case or mixed-case are kept, everything else is lower-cased.
// Returns number of headings changed.
func CapitalizeHeadings(root *html.Node, tag language.Tag) int {
	c := &capitalizer{
		title: unicode.ToTitle,
		lower: cases.Lower(tag),
	}
	// dotted and dotless i
	if base, _ := tag.Base(); base.String() == "tr" || base.String() == "az" {
		c.title = unicode.TurkishCase.ToTitle
	}

	var changed int
	for n := range htmldoc.Elements(root) {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5:
		default:
			continue
		}
		if n.Namespace != "" {
			continue
		}
		if c.heading(n) {
			changed++
		}
	}
	return changed
}

type capitalizer struct {
	title func(rune) rune // single rune mapping, "ß" must not grow into "SS"
	lower cases.Caser
	first bool
}

func (c *capitalizer) heading(n *html.Node) bool {
	c.first = true
	changed := false

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			switch ch.Type {
			case html.TextNode:
				if text := c.text(ch.Data); text != ch.Data {
					ch.Data = text
					changed = true
				}
			case html.ElementNode:
				visit(ch)
			}
		}
	}
	visit(n)
	return changed
}

// text rewrites every word of s keeping whitespace intact.
func (c *capitalizer) text(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
		if i < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:i])
		s = s[i:]

		j := strings.IndexFunc(s, unicode.IsSpace)
		if j < 0 {
			j = len(s)
		}
		sb.WriteString(c.word(s[:j]))
		s = s[j:]
	}
	return sb.String()
}

func (c *capitalizer) word(w string) string {
	if c.first {
		c.first = false
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError && size <= 1 {
			return w[:size] + c.lower.String(w[size:])
		}
		return string(c.title(r)) + c.lower.String(w[size:])
	}
	if isUpper(w) || isMixed(w) {
		return w
	}
	return c.lower.String(w)
}

// isUpper reports whether w has cased letters and all of them are upper-case.
func isUpper(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isMixed reports whether w has upper-case letter after the first rune.
func isMixed(w string) bool {
	_, size := utf8.DecodeRuneInString(w)
	return strings.IndexFunc(w[size:], unicode.IsUpper) >= 0
}
