package transform

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"smover/htmldoc"
)

func render(t *testing.T, doc *html.Node) string {
	t.Helper()
	out, err := htmldoc.RenderString(doc)
	require.NoError(t, err)
	return out
}

func body(t *testing.T, doc *html.Node) string {
	t.Helper()
	out := render(t, doc)
	start := strings.Index(out, "<body>") + len("<body>")
	end := strings.LastIndex(out, "</body>")
	require.True(t, start >= len("<body>") && end >= start, out)
	return out[start:end]
}

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := htmldoc.ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestCapitalizeHeadings(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`<h2>THE important RESULT</h2>`, `<h2>The important RESULT</h2>`},
		{`<h1>the Quick brown FOX</h1>`, `<h1>The quick brown FOX</h1>`},
		{`<h3>using PowerPoint Today</h3>`, `<h3>Using PowerPoint today</h3>`},
		{`<h4>  leading   and trailing  </h4>`, `<h4>  Leading   and trailing  </h4>`},
		{`<h5>ÉCOLE élémentaire</h5>`, `<h5>École élémentaire</h5>`},
		{`<h1>chapter <i>ONE</i> begins</h1>`, `<h1>Chapter <i>ONE</i> begins</h1>`},
		{`<h2><b>first</b> second</h2>`, `<h2><b>First</b> second</h2>`},
		{`<h6>UNTOUCHED heading</h6>`, `<h6>UNTOUCHED heading</h6>`},
		{`<p>the PARAGRAPH</p>`, `<p>the PARAGRAPH</p>`},
		{`<h1>1984 iS here</h1>`, `<h1>1984 iS here</h1>`},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			doc := parse(t, tc.in)
			CapitalizeHeadings(doc, language.Und)
			assert.Equal(t, tc.want, body(t, doc))
		})
	}
}

func TestCapitalizeHeadings_Count(t *testing.T) {
	doc := parse(t, `<h1>Already fine</h1><h2>NEEDS work</h2><h3>also Needs</h3>`)
	assert.Equal(t, 2, CapitalizeHeadings(doc, language.Und))
	assert.Equal(t, 0, CapitalizeHeadings(doc, language.Und), "second pass must not change anything")
}

func TestCapitalizeHeadings_Language(t *testing.T) {
	doc := parse(t, `<h1>ıSTANBUL ilk</h1>`)
	CapitalizeHeadings(doc, language.Turkish)
	assert.Equal(t, `<h1>Istanbul ilk</h1>`, body(t, doc))

	doc = parse(t, `<h1>iSTANBUL</h1>`)
	CapitalizeHeadings(doc, language.Turkish)
	assert.Equal(t, `<h1>İstanbul</h1>`, body(t, doc))
}

func TestCapitalizeHeadings_FirstRuneKeepsLength(t *testing.T) {
	doc := parse(t, `<h1>ßTRASSE</h1><h2>ǆUNGLA ǆungla</h2>`)
	CapitalizeHeadings(doc, language.Und)
	assert.Equal(t, `<h1>ßtrasse</h1><h2>ǅungla ǆungla</h2>`, body(t, doc))
}

func TestCapitalizer_Word(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ßTRASSE", "ßtrasse"},
		{"ǆUNGLA", "ǅungla"},
		{"\xffABC", "\xffabc"},
		{"word", "Word"},
	}
	for _, tc := range tests {
		c := &capitalizer{title: unicode.ToTitle, lower: cases.Lower(language.Und), first: true}
		assert.Equal(t, tc.want, c.word(tc.in), "%q", tc.in)
		assert.False(t, c.first)
	}
}

func TestWrapPre(t *testing.T) {
	doc := parse(t, `<div class="code-block">x<b>y</b></div>`)
	n, err := WrapPre(doc, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<div class="code-block"><pre>x<b>y</b></pre></div>`, body(t, doc))
}

func TestWrapPre_CustomClass(t *testing.T) {
	doc := parse(t, `<div class="a listing b">one</div><div class="listing-x">two</div><span class="listing"></span><img class="listing" src="i.png">`)
	n, err := WrapPre(doc, "listing")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t,
		`<div class="a listing b"><pre>one</pre></div><div class="listing-x">two</div><span class="listing"><pre></pre></span><img class="listing" src="i.png"/>`,
		body(t, doc))
}

func TestWrapPre_Nested(t *testing.T) {
	doc := parse(t, `<div class="code-block">a<div class="code-block">b</div></div>`)
	n, err := WrapPre(doc, DefaultPreClass)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, `<div class="code-block"><pre>a<div class="code-block"><pre>b</pre></div></pre></div>`, body(t, doc))
}

func TestWrapPre_InvalidClass(t *testing.T) {
	doc := parse(t, `<div class="x">t</div>`)
	_, err := WrapPre(doc, "a b[")
	assert.Error(t, err)
}
