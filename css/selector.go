package css

import (
	"cmp"
	"fmt"
	"strings"
)

// Combinator relates a selector step to the step on its left.
type Combinator uint8

const (
	// Descendant matches any ancestor ("a b").
	Descendant Combinator = iota
	// Child matches the direct parent only ("a > b").
	Child
)

func (c Combinator) String() string {
	if c == Child {
		return ">"
	}
	return " "
}

// Compound is a sequence of simple selectors applying to a single element.
type Compound struct {
	Tag     string // lower case, empty means any element
	ID      string
	Classes []string
}

// Step is a compound together with the combinator connecting it to the
// previous step. Combinator of the first step is not used.
type Step struct {
	Compound
	Combinator Combinator
}

// Selector is a parsed complex selector. Steps are ordered left to right, the
// last step is the subject of the selector.
type Selector struct {
	Raw   string // canonical text once parsed, see String
	Steps []Step
}

func (c Compound) String() string {
	var sb strings.Builder
	sb.WriteString(c.Tag)
	if c.ID != "" {
		sb.WriteString("#" + c.ID)
	}
	for _, cl := range c.Classes {
		sb.WriteString("." + cl)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// String renders steps with single spaces around combinators, so
// "div.a>p" and "div.a  >  p" both become "div.a > p".
func (s Selector) String() string {
	var sb strings.Builder
	for i, st := range s.Steps {
		if i > 0 {
			if st.Combinator == Child {
				sb.WriteString(" > ")
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(st.Compound.String())
	}
	return sb.String()
}

// Specificity is a (ids, classes, types) triple compared lexicographically.
type Specificity [3]int

// Compare returns -1, 0 or +1 depending on whether s is less, equal or greater than o.
func (s Specificity) Compare(o Specificity) int {
	for i := range s {
		if c := cmp.Compare(s[i], o[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether s is lower than o.
func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

// Specificity counts ids, classes and type selectors over all steps.
// Universal selector contributes nothing.
func (s Selector) Specificity() Specificity {
	var spec Specificity
	for _, st := range s.Steps {
		if st.ID != "" {
			spec[0]++
		}
		spec[1] += len(st.Classes)
		if st.Tag != "" {
			spec[2]++
		}
	}
	return spec
}

// ParseSelector parses a single (not grouped) selector. Errors wrap
// ErrMalformedSelector.
func ParseSelector(text string) (Selector, error) {
	raw := strings.TrimSpace(text)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, fmt.Errorf("%w: empty selector", ErrMalformedSelector)
	}

	comb, pending := Descendant, false
	for i := 0; i < len(raw); {
		switch c := raw[i]; {
		case isSpace(c):
			i++
			continue
		case c == '>':
			if len(sel.Steps) == 0 || pending {
				return sel, fmt.Errorf("%w: %q: unexpected '>'", ErrMalformedSelector, raw)
			}
			comb, pending = Child, true
			i++
			continue
		}

		compound, n, err := parseCompound(raw[i:])
		if err != nil {
			return sel, fmt.Errorf("%w: %q: %w", ErrMalformedSelector, raw, err)
		}
		step := Step{Compound: compound}
		if len(sel.Steps) > 0 {
			step.Combinator = comb
		}
		sel.Steps = append(sel.Steps, step)
		comb, pending = Descendant, false
		i += n
	}
	if pending {
		return sel, fmt.Errorf("%w: %q: dangling '>'", ErrMalformedSelector, raw)
	}
	sel.Raw = sel.String()
	return sel, nil
}

// parseCompound reads one compound from the beginning of s and returns number
// of bytes consumed.
func parseCompound(s string) (Compound, int, error) {
	var c Compound

	i := 0
	switch {
	case s[0] == '*':
		i = 1
	case isNameStart(s[0]):
		i = scanName(s)
		c.Tag = strings.ToLower(s[:i])
	}

	for i < len(s) {
		switch ch := s[i]; {
		case ch == '.' || ch == '#':
			n := scanName(s[i+1:])
			if n == 0 {
				return c, i, fmt.Errorf("empty name after '%c'", ch)
			}
			name := s[i+1 : i+1+n]
			if ch == '.' {
				c.Classes = append(c.Classes, name)
			} else {
				if c.ID != "" && c.ID != name {
					return c, i, fmt.Errorf("conflicting ids %q and %q", c.ID, name)
				}
				c.ID = name
			}
			i += 1 + n
		case isSpace(ch) || ch == '>':
			if i == 0 {
				return c, i, fmt.Errorf("missing compound selector")
			}
			return c, i, nil
		case ch == '[' || ch == ':' || ch == '+' || ch == '~' || ch == '|' || ch == '\\':
			return c, i, fmt.Errorf("unsupported syntax at '%c'", ch)
		default:
			return c, i, fmt.Errorf("unexpected character '%c'", ch)
		}
	}
	if i == 0 {
		return c, i, fmt.Errorf("missing compound selector")
	}
	return c, i, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-'
}

func scanName(s string) int {
	n := 0
	for n < len(s) && isNameChar(s[n]) {
		n++
	}
	return n
}
