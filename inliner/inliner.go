// Package inliner runs the complete transformation of a single document:
// stylesheet extraction, cascade resolution, optional text transforms and
// style attribute rewriting.
package inliner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"smover/cascade"
	"smover/css"
	"smover/htmldoc"
	"smover/transform"
)

// ErrInconsistentTree is returned when document cannot be safely processed or
// is left in unexpected state. Document must not be written out.
var ErrInconsistentTree = errors.New("inconsistent document tree")

// Options select optional processing.
type Options struct {
	Capitalize   bool   // normalize case of h1-h5 headings
	PreClass     string // wrap content of elements with this class into <pre>, empty to skip
	CollectStats bool   // count applied properties
}

// Result describes a successful run.
type Result struct {
	Tally       *cascade.Tally // nil unless statistics were requested
	Warnings    []error        // soft problems, processing continued
	Rules       int
	Elements    int
	StyleBlocks int
	Wrapped     int
	Capitalized int
	Sheet       *css.Stylesheet
	Resolution  *cascade.Resolution
}

// Inliner moves embedded stylesheets into style attributes.
type Inliner struct {
	log    *zap.Logger
	parser *css.Parser
}

// New creates inliner.
func New(log *zap.Logger) *Inliner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inliner{
		log:    log,
		parser: css.NewParser(log),
	}
}

// Process transforms doc in place. On error the tree may be partially
// modified and must be discarded.
func (in *Inliner) Process(doc *html.Node, opts Options) (*Result, error) {
	if documentElement(doc) == nil {
		return nil, fmt.Errorf("%w: no root element", ErrInconsistentTree)
	}

	blocks := htmldoc.StyleBlocks(doc)
	sheet := &css.Stylesheet{}
	for i, b := range blocks {
		sheet.Append(in.parser.Parse([]byte(htmldoc.StyleText(b)), fmt.Sprintf("<style> #%d", i+1)))
	}
	if len(blocks) == 0 {
		in.log.Info("No <style> block found, proceeding with other operations")
	}
	for _, w := range sheet.Warnings {
		in.log.Warn("Ignoring stylesheet problem", zap.Error(w))
	}

	res := &Result{
		Warnings:    sheet.Warnings,
		Rules:       len(sheet.Rules),
		StyleBlocks: len(blocks),
		Sheet:       sheet,
	}
	if opts.CollectStats {
		res.Tally = cascade.NewTally()
	}

	res.Resolution = cascade.NewResolver(sheet, in.log).Resolve(doc, res.Tally)
	res.Elements = res.Resolution.Len()
	for _, w := range res.Resolution.Warnings {
		in.log.Warn("Ignoring inline style problem", zap.Error(w))
	}
	res.Warnings = append(res.Warnings, res.Resolution.Warnings...)

	// classes are needed to find elements to wrap, so this goes before they are stripped
	if opts.PreClass != "" {
		n, err := transform.WrapPre(doc, opts.PreClass)
		if err != nil {
			return nil, fmt.Errorf("unable to wrap elements into <pre>: %w", err)
		}
		in.log.Debug("Wrapped content into <pre>", zap.String("class", opts.PreClass), zap.Int("elements", n))
		res.Wrapped = n
	}

	res.Resolution.ApplyAll()

	htmldoc.RemoveNodes(blocks)
	if left := htmldoc.StyleBlocks(doc); len(left) > 0 {
		return nil, fmt.Errorf("%w: %d <style> blocks left after removal", ErrInconsistentTree, len(left))
	}

	if opts.Capitalize {
		lang := htmldoc.Lang(doc)
		res.Capitalized = transform.CapitalizeHeadings(doc, lang)
		in.log.Debug("Headings capitalized", zap.Stringer("lang", lang), zap.Int("headings", res.Capitalized))
	}

	in.log.Debug("Document processed",
		zap.Int("style blocks", res.StyleBlocks),
		zap.Int("rules", res.Rules),
		zap.Int("elements", res.Elements),
		zap.Int("applied", res.Tally.Total()),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

func documentElement(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == html.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
