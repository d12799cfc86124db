package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Parsing never fails, problems are
// collected in Stylesheet.Warnings and the offending rule or declaration is
// skipped. The optional source parameter identifies what's being parsed (for
// debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// selectors of a group may come one by one before the block opens
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil || errors.Is(err, io.EOF) {
				return sheet
			}
			p.warn(sheet, fmt.Errorf("%w: %w", ErrSyntax, err))
			pending = nil

		case css.BeginAtRuleGrammar:
			p.warn(sheet, fmt.Errorf("%w: %s block", ErrUnsupportedRule, data))
			if !p.skipBlock(parser) {
				return sheet
			}

		case css.AtRuleGrammar:
			if strings.EqualFold(string(data), "@charset") {
				continue
			}
			p.warn(sheet, fmt.Errorf("%w: %s", ErrUnsupportedRule, data))

		case css.QualifiedRuleGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, p.parseSelectors(data, parser.Values())...)
			pending = nil

			decls, ok := p.parseDeclarations(parser, sheet)
			for _, text := range selectors {
				sel, err := ParseSelector(text)
				if err != nil {
					p.warn(sheet, err)
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{
					Selector:     sel,
					Declarations: decls,
					SourceIndex:  len(sheet.Rules),
				})
			}
			if !ok {
				return sheet
			}
		}
	}
}

func (p *Parser) warn(sheet *Stylesheet, err error) {
	p.log.Debug("CSS problem", zap.Error(err))
	sheet.warn(err)
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	// Split by comma for grouped selectors, empty parts are malformed
	parts := strings.Split(sb.String(), ",")
	if len(parts) == 1 && strings.TrimSpace(parts[0]) == "" {
		return []string{""}
	}
	selectors := make([]string, 0, len(parts))
	for _, s := range parts {
		selectors = append(selectors, strings.TrimSpace(s))
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
// Returns false when input ended before the block was closed.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) ([]Declaration, bool) {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil || errors.Is(err, io.EOF) {
				return decls, false
			}
			p.warn(sheet, fmt.Errorf("%w: %w", ErrMalformedDeclaration, err))

		case css.EndRulesetGrammar:
			return decls, true

		case css.DeclarationGrammar:
			value, important := declarationValue(parser.Values())
			if value == "" {
				p.warn(sheet, fmt.Errorf("%w: %q has no value", ErrMalformedDeclaration, data))
				continue
			}
			decls = append(decls, Declaration{
				Property:  strings.ToLower(string(data)),
				Value:     value,
				Important: important,
			})

		case css.CustomPropertyGrammar:
			value, important := declarationValue(parser.Values())
			if value == "" {
				p.warn(sheet, fmt.Errorf("%w: %q has no value", ErrMalformedDeclaration, data))
				continue
			}
			decls = append(decls, Declaration{Property: string(data), Value: value, Important: important})

		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			p.warn(sheet, fmt.Errorf("%w: nested rule", ErrUnsupportedRule))
			if !p.skipBlock(parser) {
				return decls, false
			}
		}
	}
}

// declarationValue joins value tokens collapsing whitespace and strips
// trailing "!important". Tokenizer drops whitespace around commas, list
// items are joined back with ", ".
func declarationValue(tokens []css.Token) (string, bool) {
	end := trimWhitespace(tokens, len(tokens))

	important := false
	if end > 0 && tokens[end-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[end-1].Data), "important") {
		j := trimWhitespace(tokens, end-1)
		if j > 0 && tokens[j-1].TokenType == css.DelimToken && string(tokens[j-1].Data) == "!" {
			important = true
			end = trimWhitespace(tokens, j-1)
		}
	}

	var sb strings.Builder
	space := false
	for _, t := range tokens[:end] {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
		if t.TokenType == css.CommaToken {
			space = true
		}
	}
	return strings.TrimSpace(sb.String()), important
}

func trimWhitespace(tokens []css.Token, end int) int {
	for end > 0 && (tokens[end-1].TokenType == css.WhitespaceToken || tokens[end-1].TokenType == css.CommentToken) {
		end--
	}
	return end
}

// skipBlock skips tokens until the end of the block just opened. Returns
// false when input ended first.
func (p *Parser) skipBlock(parser *css.Parser) bool {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err == nil || errors.Is(err, io.EOF) {
				return false
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return true
}
