package css

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kinds of problems found while parsing. Problems are never fatal, they are
// collected in Stylesheet.Warnings wrapping one of these.
var (
	ErrMalformedSelector    = errors.New("malformed selector")
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrUnsupportedRule      = errors.New("unsupported rule")
	ErrSyntax               = errors.New("syntax error")
)

// Declaration is a single property: value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Rule is a single selector with its declarations. Grouped selectors produce
// one rule per selector.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
	SourceIndex  int // position in the stylesheet, later rules win ties
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Rules    []Rule  // in source order, Rules[i].SourceIndex == i
	Warnings []error // soft problems, see ErrMalformedSelector and friends
}

// Append adds rules and warnings of other stylesheet after own, as if other
// text followed own in the same stylesheet.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	for _, r := range other.Rules {
		r.SourceIndex = len(s.Rules)
		s.Rules = append(s.Rules, r)
	}
	s.Warnings = append(s.Warnings, other.Warnings...)
}

func (s *Stylesheet) warn(err error) {
	s.Warnings = append(s.Warnings, err)
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s { /* %d, specificity %v */\n", rule.Selector.Raw, rule.SourceIndex, rule.Selector.Specificity())
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "  %s;\n", d)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
