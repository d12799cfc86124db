package css_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smover/css"
)

func TestParseInline(t *testing.T) {
	decls, problems := css.ParseInline(` Color : red;margin:0 auto ; border: 1px   solid #000 !important; font-family: "a;b", serif `)
	require.Empty(t, problems)
	assert.Equal(t, []css.Declaration{
		{Property: "color", Value: "red"},
		{Property: "margin", Value: "0 auto"},
		{Property: "border", Value: "1px solid #000", Important: true},
		{Property: "font-family", Value: `"a;b", serif`},
	}, decls)
}

func TestParseInline_Malformed(t *testing.T) {
	decls, problems := css.ParseInline(`color: red; margin; : 0; width: 10px;;`)

	assert.Equal(t, []css.Declaration{
		{Property: "color", Value: "red"},
		{Property: "width", Value: "10px"},
	}, decls)
	require.Len(t, problems, 2)
	for _, p := range problems {
		assert.True(t, errors.Is(p, css.ErrMalformedDeclaration), "unexpected problem %v", p)
	}
}

func TestParseInline_Empty(t *testing.T) {
	for _, text := range []string{"", "  ", ";", " ; ; "} {
		decls, problems := css.ParseInline(text)
		assert.Empty(t, decls, text)
		assert.Empty(t, problems, text)
	}
}

func TestFormatInline(t *testing.T) {
	assert.Equal(t, "", css.FormatInline(nil))
	assert.Equal(t, "color: red;", css.FormatInline([]css.Declaration{{Property: "color", Value: "red"}}))
	assert.Equal(t, "color: red; margin: 0 auto;", css.FormatInline([]css.Declaration{
		{Property: "color", Value: "red", Important: true},
		{Property: "margin", Value: "0 auto"},
	}))
}

func TestInlineRoundTrip(t *testing.T) {
	in := []css.Declaration{
		{Property: "color", Value: "blue"},
		{Property: "margin", Value: "0 0 0.5em 0"},
		{Property: "font-family", Value: `"Times New Roman", serif`},
		{Property: "background", Value: "url(img.png) no-repeat"},
		{Property: "width", Value: "calc(100% - 2em)"},
	}

	out, problems := css.ParseInline(css.FormatInline(in))
	require.Empty(t, problems)
	assert.Equal(t, in, out)
}
