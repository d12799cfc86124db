package css

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// ParseInline parses the content of a style attribute. Declarations which
// cannot be parsed are skipped and reported as errors wrapping
// ErrMalformedDeclaration.
func ParseInline(text string) ([]Declaration, []error) {
	var (
		decls    []Declaration
		problems []error
	)
	for _, part := range splitDeclarations(text) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		parsed, err := parser.ParseDeclarations(part + ";")
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %q: %w", ErrMalformedDeclaration, strings.TrimSpace(part), err))
			continue
		}
		if len(parsed) == 0 {
			problems = append(problems, fmt.Errorf("%w: %q", ErrMalformedDeclaration, strings.TrimSpace(part)))
			continue
		}
		for _, d := range parsed {
			decl, ok := normalizeDeclaration(d.Property, d.Value, d.Important)
			if !ok {
				problems = append(problems, fmt.Errorf("%w: %q", ErrMalformedDeclaration, strings.TrimSpace(part)))
				continue
			}
			decls = append(decls, decl)
		}
	}
	return decls, problems
}

func normalizeDeclaration(prop, value string, important bool) (Declaration, bool) {
	prop = strings.TrimSpace(prop)
	if !strings.HasPrefix(prop, "--") {
		prop = strings.ToLower(prop)
	}
	value = collapseSpace(value)
	if v, ok := cutImportant(value); ok {
		value, important = v, true
	}
	if prop == "" || value == "" {
		return Declaration{}, false
	}
	return Declaration{Property: prop, Value: value, Important: important}, true
}

func cutImportant(value string) (string, bool) {
	const marker = "important"
	if len(value) < len(marker) || !strings.EqualFold(value[len(value)-len(marker):], marker) {
		return value, false
	}
	rest := strings.TrimRight(value[:len(value)-len(marker)], " \t\n\r\f")
	if !strings.HasSuffix(rest, "!") {
		return value, false
	}
	return strings.TrimSpace(rest[:len(rest)-1]), true
}

// collapseSpace trims value and replaces whitespace runs outside of quotes
// with a single space.
func collapseSpace(value string) string {
	var (
		sb    strings.Builder
		quote byte
		space bool
	)
	for i := 0; i < len(value); i++ {
		c := value[i]
		if quote == 0 && isSpace(c) {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteByte(c)
		switch {
		case quote != 0 && c == '\\' && i+1 < len(value):
			i++
			sb.WriteByte(value[i])
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		}
	}
	return sb.String()
}

// splitDeclarations splits on semicolons outside of quotes and brackets.
func splitDeclarations(text string) []string {
	var (
		parts []string
		quote byte
		depth int
		start int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == ';' && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// FormatInline renders declarations in "property: value; property: value;"
// form. Importance markers are not written.
func FormatInline(decls []Declaration) string {
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}
