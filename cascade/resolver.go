// Package cascade computes which declarations apply to every element of a
// document and moves them into style attributes.
package cascade

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"smover/css"
	"smover/htmldoc"
)

// Resolver matches stylesheet rules against document elements and picks the
// winning value for each property.
type Resolver struct {
	rules []css.Rule
	specs []css.Specificity
	log   *zap.Logger
}

// NewResolver prepares resolver for rules of the sheet. Rules must be in
// source order, which is what css.Parser produces.
func NewResolver(sheet *css.Stylesheet, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{log: log.Named("cascade")}
	if sheet != nil {
		r.rules = sheet.Rules
		r.specs = make([]css.Specificity, len(sheet.Rules))
		for i, rule := range sheet.Rules {
			r.specs[i] = rule.Selector.Specificity()
		}
	}
	return r
}

// Resolution holds resolved declarations for every element of the tree.
type Resolution struct {
	order    []*html.Node
	styles   map[*html.Node]*Declarations
	Warnings []error // problems found in pre-existing style attributes
}

// Elements returns all resolved elements in document order.
func (r *Resolution) Elements() []*html.Node {
	return r.order
}

// Styles returns resolved declarations of n, nil when n was not part of the
// resolved tree.
func (r *Resolution) Styles(n *html.Node) *Declarations {
	return r.styles[n]
}

// Len returns number of resolved elements.
func (r *Resolution) Len() int {
	return len(r.order)
}

// candidate is the currently winning declaration for a property.
type candidate struct {
	value     string
	important bool
	spec      css.Specificity
}

// beats reports whether c, seen later in cascade order, wins over cur.
func (c candidate) beats(cur candidate) bool {
	if c.important != cur.important {
		return c.important
	}
	if s := c.spec.Compare(cur.spec); s != 0 {
		return s > 0
	}
	return true
}

// Resolve computes declarations for every element under root. Tree is only
// read. Applied stylesheet properties are reported to tally, which may be nil.
func (r *Resolver) Resolve(root *html.Node, tally *Tally) *Resolution {
	res := &Resolution{styles: make(map[*html.Node]*Declarations)}
	m := css.NewMatcher()

	for n := range htmldoc.Elements(root) {
		decls := r.resolveElement(m, n, tally, res)
		res.order = append(res.order, n)
		res.styles[n] = decls
	}

	r.log.Debug("Cascade resolved", zap.Int("rules", len(r.rules)), zap.Int("elements", len(res.order)))
	return res
}

func (r *Resolver) resolveElement(m *css.Matcher, n *html.Node, tally *Tally, res *Resolution) *Declarations {
	var (
		order   []string
		winners = make(map[string]candidate)
	)
	for i, rule := range r.rules {
		if !m.Match(rule.Selector, n) {
			continue
		}
		for _, d := range rule.Declarations {
			c := candidate{value: d.Value, important: d.Important, spec: r.specs[i]}
			cur, ok := winners[d.Property]
			if !ok {
				order = append(order, d.Property)
				winners[d.Property] = c
				continue
			}
			if c.beats(cur) {
				winners[d.Property] = c
			}
		}
	}

	var inline []css.Declaration
	if text, ok := htmldoc.GetAttr(n, "style"); ok {
		var problems []error
		inline, problems = css.ParseInline(text)
		for _, p := range problems {
			r.log.Debug("Bad inline style", zap.String("element", n.Data), zap.Error(p))
		}
		res.Warnings = append(res.Warnings, problems...)
	}
	overridden := make(map[string]bool, len(inline))
	for _, d := range inline {
		overridden[d.Property] = true
	}

	decls := NewDeclarations()
	for _, p := range order {
		decls.Set(p, winners[p].value)
		tally.Observe(n, p, !overridden[p])
	}
	// pre-existing inline declarations are applied last and always win
	for _, d := range inline {
		decls.Set(d.Property, d.Value)
		if _, ok := winners[d.Property]; !ok {
			tally.Observe(n, d.Property, false)
		}
	}
	return decls
}
