package inliner

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"smover/cascade"
	"smover/css"
	"smover/htmldoc"
)

const page = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Sample</title>
<style>
body { margin: 0; }
.a { color: red; }
#x { color: blue; }
.warn { color: orange !important; }
div > p.lead { font-size: 1.2em; }
h2 { text-align: center; }
.code-block { font-family: monospace; }
a:hover { color: green; }
</style>
</head>
<body>
<div id="x" class="a">one</div>
<div class="chapter"><p class="lead warn" style="margin: 0 auto">two</p><p>three</p></div>
<h2 class="title">THE important RESULT</h2>
<div class="code-block">x<b>y</b></div>
</body>
</html>`

func newInliner(t *testing.T) *Inliner {
	return New(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

func process(t *testing.T, src string, opts Options) (string, *Result) {
	t.Helper()
	doc, err := htmldoc.ParseString(src)
	require.NoError(t, err)
	res, err := newInliner(t).Process(doc, opts)
	require.NoError(t, err)
	out, err := htmldoc.RenderString(doc)
	require.NoError(t, err)
	return out, res
}

func TestProcess(t *testing.T) {
	out, res := process(t, page, Options{Capitalize: true, PreClass: "code-block", CollectStats: true})

	assert.NotContains(t, out, "<style")
	assert.NotContains(t, out, "class=")
	assert.Contains(t, out, `<body style="margin: 0;">`)
	assert.Contains(t, out, `<div id="x" style="color: blue;">one</div>`)
	assert.Contains(t, out, `<p style="color: orange; font-size: 1.2em; margin: 0 auto;">two</p><p>three</p>`)
	assert.Contains(t, out, `<h2 style="text-align: center;">The important RESULT</h2>`)
	assert.Contains(t, out, `<div style="font-family: monospace;"><pre>x<b>y</b></pre></div>`)

	assert.Equal(t, 1, res.StyleBlocks)
	assert.Equal(t, 7, res.Rules)
	assert.Equal(t, 1, res.Wrapped)
	assert.Equal(t, 1, res.Capitalized)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], css.ErrMalformedSelector))

	assert.Equal(t, []cascade.Stat{
		{Property: "color", Count: 2},
		{Property: "font-family", Count: 1},
		{Property: "font-size", Count: 1},
		{Property: "margin", Count: 1},
		{Property: "text-align", Count: 1},
	}, res.Tally.Report())
}

func TestProcess_OptionsOff(t *testing.T) {
	out, res := process(t, page, Options{})

	assert.Nil(t, res.Tally)
	assert.Contains(t, out, `<h2 style="text-align: center;">THE important RESULT</h2>`)
	assert.Contains(t, out, `<div style="font-family: monospace;">x<b>y</b></div>`)
	assert.NotContains(t, out, "class=")
}

func TestProcess_Idempotent(t *testing.T) {
	first, _ := process(t, page, Options{Capitalize: true, PreClass: "code-block"})
	second, res := process(t, first, Options{Capitalize: true, PreClass: "code-block"})

	assert.Equal(t, first, second)
	assert.Equal(t, 0, res.StyleBlocks)
	assert.Equal(t, 0, res.Wrapped)
	assert.Equal(t, 0, res.Capitalized)
}

func TestProcess_MissingStylesheet(t *testing.T) {
	out, res := process(t, `<html><body><p class="a" style="color: red">t</p><span class="b">s</span></body></html>`, Options{CollectStats: true})

	assert.Equal(t, `<html><head></head><body><p style="color: red;">t</p><span>s</span></body></html>`, out)
	assert.Equal(t, 0, res.Rules)
	assert.Empty(t, res.Tally.Report())
}

func TestProcess_MultipleStyleBlocks(t *testing.T) {
	out, res := process(t, `<html><head><style>p { color: red; margin: 0; }</style></head>
<body><style>p { color: blue; }</style><p>t</p></body></html>`, Options{})

	assert.Equal(t, 2, res.StyleBlocks)
	assert.Equal(t, 2, res.Rules)
	assert.Contains(t, out, `<p style="color: blue; margin: 0;">t</p>`)
	assert.NotContains(t, out, "<style")
}

func TestProcess_InvalidPreClass(t *testing.T) {
	doc, err := htmldoc.ParseString(page)
	require.NoError(t, err)
	_, err = newInliner(t).Process(doc, Options{PreClass: "bad["})
	assert.Error(t, err)
}

func TestProcess_InconsistentTree(t *testing.T) {
	for _, doc := range []*html.Node{nil, {Type: html.DocumentNode}} {
		_, err := newInliner(t).Process(doc, Options{})
		assert.True(t, errors.Is(err, ErrInconsistentTree), "got %v", err)
	}
}

func TestDump(t *testing.T) {
	_, res := process(t, page, Options{CollectStats: true})

	dump := Dump(res)
	for _, want := range []string{
		"style blocks: 1, rules: 7",
		"[2] #x (1,0,0)",
		"color: orange !important",
		"warning: ",
		"html > body > div#x",
		"color = blue",
		fmt.Sprintf("applied: %d", res.Tally.Total()),
	} {
		assert.True(t, strings.Contains(dump, want), "expected %q in dump:\n%s", want, dump)
	}
	assert.Equal(t, "no result\n", Dump(nil))
	assert.Positive(t, res.Tally.Total())
}

func TestProcessStyleInsideSVG(t *testing.T) {
	out, res := process(t, `<html><body><svg><style>p { color: pink; }</style><circle r="1"></circle></svg><p>x</p></body></html>`, Options{})

	assert.Equal(t, 1, res.StyleBlocks)
	assert.NotContains(t, out, "<style")
	assert.Contains(t, out, `<p style="color: pink;">x</p>`)
}
