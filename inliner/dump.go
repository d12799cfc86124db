package inliner

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"smover/htmldoc"
	"smover/utils/debug"
)

// Dump returns readable description of the run: parsed rules, problems and
// resolved declarations of every styled element.
func Dump(res *Result) string {
	tw := debug.NewTreeWriter()
	if res == nil {
		tw.Line(0, "no result")
		return tw.String()
	}

	tw.Line(0, "style blocks: %d, rules: %d, elements: %d, wrapped: %d, capitalized: %d",
		res.StyleBlocks, res.Rules, res.Elements, res.Wrapped, res.Capitalized)

	if res.Sheet != nil && len(res.Sheet.Rules) > 0 {
		tw.Line(0, "rules:")
		for _, r := range res.Sheet.Rules {
			tw.Line(1, "[%d] %s %v", r.SourceIndex, r.Selector.Raw, r.Selector.Specificity())
			for _, d := range r.Declarations {
				tw.Line(2, "%s", d)
			}
		}
	}

	if len(res.Warnings) > 0 {
		tw.Line(0, "warnings:")
		for _, w := range res.Warnings {
			tw.TextBlock(1, "warning", w.Error())
		}
	}

	if res.Resolution != nil {
		tw.Line(0, "resolved:")
		for _, n := range res.Resolution.Elements() {
			decls := res.Resolution.Styles(n)
			if decls.Len() == 0 {
				continue
			}
			tw.Line(1, "%s", label(n))
			var keys, values []string
			for p, v := range decls.All() {
				keys = append(keys, p)
				values = append(values, v)
			}
			tw.Pairs(2, keys, values)
		}
	}

	if res.Tally != nil {
		tw.Line(0, "applied: %d", res.Tally.Total())
		for _, s := range res.Tally.Report() {
			tw.Line(1, "%s: %d", s.Property, s.Count)
		}
	}
	return tw.String()
}

// label describes element by its position in the tree: html > body > p#id.
func label(n *html.Node) string {
	var parts []string
	for e := n; e != nil; e = htmldoc.ParentElement(e) {
		part := e.Data
		if id, ok := htmldoc.GetAttr(e, "id"); ok && id != "" {
			part += "#" + id
		}
		parts = append(parts, part)
	}
	slices.Reverse(parts)
	return strings.Join(parts, " > ")
}
