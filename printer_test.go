package css_test

import (
	"testing"

	"github.com/csscore/css"
	"github.com/csscore/css/ast"
	"github.com/csscore/css/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_Print_StyleRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`a.link { color: red; font-size: 12px !important; }`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `a.link { color: red; font-size: 12px !important; }`, css.Sprint(sheet))
}

func TestPrinter_Print_MediaRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@media screen and (min-width: 900px) { a { color: red; } }`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@media screen and (min-width: 900px) { a { color: red; } }`, css.Sprint(sheet))
}

func TestPrinter_Print_SupportsRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@supports not ((display: grid) and (display: flex)) { a { } }`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@supports not ((display: grid) and (display: flex)) { a { } }`, css.Sprint(sheet))
}

func TestPrinter_Print_Charset(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@charset "UTF-8";`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@charset "UTF-8";`, css.Sprint(sheet))
}

func TestPrinter_Print_ImportRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@import "foo.css" screen;`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@import "foo.css" screen;`, css.Sprint(sheet))
}

func TestPrinter_Print_NamespaceRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@namespace svg "http://www.w3.org/2000/svg";`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@namespace svg "http://www.w3.org/2000/svg";`, css.Sprint(sheet))
}

func TestPrinter_Print_KeyframesRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@keyframes spin { from { opacity: 0; } to { opacity: 1; } }`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@keyframes spin { 0% { opacity: 0; } 100% { opacity: 1; } }`, css.Sprint(sheet))
}

func TestPrinter_Print_PageAndFontFace(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@page :first { margin: 1in; } @font-face { font-family: "Roboto"; }`), css.Config{})
	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, `@page :first { margin: 1in; } @font-face { font-family: "Roboto"; }`, css.Sprint(sheet))
}

func TestPrinter_Print_UnknownAtRule(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`@wibble foo;`), css.Config{})
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, `@wibble foo;`, css.Sprint(sheet))
}

func TestPrinter_Print_NilStylesheet(t *testing.T) {
	assert.Equal(t, ``, css.Sprint((*ast.Stylesheet)(nil)))
}

func TestPrinter_Print_NilRuleInterface(t *testing.T) {
	var rule ast.Rule
	assert.Equal(t, ``, css.Sprint(rule))
}
