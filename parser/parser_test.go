package parser_test

import (
	"testing"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/parser"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, css string) (*ast.Stylesheet, *diag.Sink) {
	t.Helper()
	errs := &diag.Sink{}
	sc := scanner.New(source.NewString(css), errs)
	p := parser.New(sc, errs, nil)
	return p.ParseStylesheet(), errs
}

func identValue(t *testing.T, c value.Component) string {
	t.Helper()
	leaf, ok := c.(value.Leaf)
	require.True(t, ok)
	id, ok := leaf.Token.(*token.Ident)
	require.True(t, ok)
	return id.Value
}

func TestParseStylesheet_StyleRule(t *testing.T) {
	sheet, errs := parse(t, `a.link { color: red; font-size: 12px !important; }`)
	require.Empty(t, errs.Errors)
	require.Len(t, sheet.Rules, 1)

	rule, ok := sheet.Rules[0].(*ast.StyleRule)
	require.True(t, ok)
	require.NotNil(t, rule.Selector)
	assert.Same(t, sheet, rule.ParentStylesheet())
	assert.Nil(t, rule.ParentRule())

	assert.Equal(t, 2, rule.Style.Len())
	prop, ok := rule.Style.Get("color")
	require.True(t, ok)
	assert.False(t, prop.Important())

	prop, ok = rule.Style.Get("font-size")
	require.True(t, ok)
	assert.True(t, prop.Important())
}

func TestParseStylesheet_LastDeclarationWins(t *testing.T) {
	sheet, errs := parse(t, `p { color: red; color: blue; }`)
	require.Empty(t, errs.Errors)
	rule := sheet.Rules[0].(*ast.StyleRule)
	assert.Equal(t, 1, rule.Style.Len())
	prop, _ := rule.Style.Get("color")
	require.Len(t, prop.Value().Components, 1)
	assert.Equal(t, "blue", identValue(t, prop.Value().Components[0]))
}

func TestParseStylesheet_Charset(t *testing.T) {
	sheet, errs := parse(t, `@charset "UTF-8"; a {}`)
	require.Empty(t, errs.Errors)
	require.Len(t, sheet.Rules, 2)
	cs, ok := sheet.Rules[0].(*ast.CharsetRule)
	require.True(t, ok)
	assert.Equal(t, "UTF-8", cs.Encoding)
}

func TestParseStylesheet_Import(t *testing.T) {
	sheet, errs := parse(t, `@import url("foo.css") screen and (min-width: 400px);`)
	require.Empty(t, errs.Errors)
	imp, ok := sheet.Rules[0].(*ast.ImportRule)
	require.True(t, ok)
	assert.Equal(t, "foo.css", imp.Href)
	require.Len(t, imp.Media, 1)
	assert.Equal(t, "screen", imp.Media[0].Type)
	require.Len(t, imp.Media[0].Features, 1)
	assert.Equal(t, "min-width", imp.Media[0].Features[0].Name)
}

func TestParseStylesheet_Namespace(t *testing.T) {
	sheet, errs := parse(t, `@namespace svg url(http://www.w3.org/2000/svg);`)
	require.Empty(t, errs.Errors)
	ns, ok := sheet.Rules[0].(*ast.NamespaceRule)
	require.True(t, ok)
	assert.Equal(t, "svg", ns.Prefix)
	assert.Equal(t, "http://www.w3.org/2000/svg", ns.URI)
}

func TestParseStylesheet_MediaRule(t *testing.T) {
	sheet, errs := parse(t, `@media screen and (min-width: 900px) { a { color: red; } }`)
	require.Empty(t, errs.Errors)
	media, ok := sheet.Rules[0].(*ast.MediaRule)
	require.True(t, ok)
	require.Len(t, media.Media, 1)
	require.Len(t, media.Rules, 1)

	inner := media.Rules[0].(*ast.StyleRule)
	assert.Same(t, sheet, inner.ParentStylesheet())
	assert.Same(t, media, inner.ParentRule())
}

func TestParseStylesheet_SupportsDeclaration(t *testing.T) {
	sheet, errs := parse(t, `@supports (display: grid) { a {} }`)
	require.Empty(t, errs.Errors)
	sup, ok := sheet.Rules[0].(*ast.SupportsRule)
	require.True(t, ok)
	cond, ok := sup.Condition.(ast.DeclarationCondition)
	require.True(t, ok)
	assert.Equal(t, "display", cond.Name)
}

func TestParseStylesheet_SupportsNotAnd(t *testing.T) {
	sheet, errs := parse(t, `@supports not ((display: grid) and (display: flex)) { a {} }`)
	require.Empty(t, errs.Errors)
	sup := sheet.Rules[0].(*ast.SupportsRule)
	not, ok := sup.Condition.(ast.NotCondition)
	require.True(t, ok)
	group, ok := not.Cond.(ast.GroupCondition)
	require.True(t, ok)
	and, ok := group.Cond.(ast.AndCondition)
	require.True(t, ok)
	assert.Len(t, and.Conds, 2)
}

func TestParseStylesheet_DocumentRule(t *testing.T) {
	sheet, errs := parse(t, `@document url-prefix("https://example.com/") { a {} }`)
	require.Empty(t, errs.Errors)
	doc, ok := sheet.Rules[0].(*ast.DocumentRule)
	require.True(t, ok)
	require.Len(t, doc.Functions, 1)
	assert.Equal(t, "url-prefix", doc.Functions[0].Name)
	assert.Equal(t, "https://example.com/", doc.Functions[0].Arg)
}

func TestParseStylesheet_PageRule(t *testing.T) {
	sheet, errs := parse(t, `@page :first { margin: 1in; }`)
	require.Empty(t, errs.Errors)
	page, ok := sheet.Rules[0].(*ast.PageRule)
	require.True(t, ok)
	assert.Contains(t, page.Selector, ":first")
	assert.Equal(t, 1, page.Style.Len())
}

func TestParseStylesheet_FontFaceRule(t *testing.T) {
	sheet, errs := parse(t, `@font-face { font-family: "Roboto"; src: url(a.woff); }`)
	require.Empty(t, errs.Errors)
	ff, ok := sheet.Rules[0].(*ast.FontFaceRule)
	require.True(t, ok)
	assert.Equal(t, 2, ff.Style.Len())
}

func TestParseStylesheet_KeyframesRule(t *testing.T) {
	sheet, errs := parse(t, `@keyframes spin { from { opacity: 0; } 50%, 75% { opacity: .5; } to { opacity: 1; } }`)
	require.Empty(t, errs.Errors)
	kf, ok := sheet.Rules[0].(*ast.KeyframesRule)
	require.True(t, ok)
	assert.Equal(t, "spin", kf.Name)
	require.Len(t, kf.Keyframes, 3)

	assert.Equal(t, []ast.KeyframeSelector{{Percentage: 0}}, kf.Keyframes[0].Selectors)
	assert.Equal(t, []ast.KeyframeSelector{{Percentage: 50}, {Percentage: 75}}, kf.Keyframes[1].Selectors)
	assert.Equal(t, []ast.KeyframeSelector{{Percentage: 100}}, kf.Keyframes[2].Selectors)
}

func TestParseStylesheet_UnknownAtRule(t *testing.T) {
	sheet, errs := parse(t, `@wibble foo bar; a {}`)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, diag.UnknownAtRule, errs.Errors[0].Code)

	unk, ok := sheet.Rules[0].(*ast.UnknownAtRule)
	require.True(t, ok)
	assert.Equal(t, "wibble", unk.Name)
	assert.False(t, unk.HasBlock)
}

func TestParseStylesheet_InvalidSelectorResyncs(t *testing.T) {
	sheet, errs := parse(t, ` { color: red; } p { color: blue; }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.InvalidSelector, errs.Errors[0].Code)
	require.Len(t, sheet.Rules, 1)
	rule := sheet.Rules[0].(*ast.StyleRule)
	assert.Equal(t, 1, rule.Style.Len())
}

func TestParseStylesheet_MissingColonResyncs(t *testing.T) {
	sheet, errs := parse(t, `a { color red; font-size: 10px; }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.ColonMissing, errs.Errors[0].Code)

	rule := sheet.Rules[0].(*ast.StyleRule)
	_, hasColor := rule.Style.Get("color")
	assert.False(t, hasColor)
	_, hasFontSize := rule.Style.Get("font-size")
	assert.True(t, hasFontSize)
}

func TestParseStylesheet_NonIdentDeclarationStartResyncs(t *testing.T) {
	sheet, errs := parse(t, `a { 123: red; font-size: 10px; }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.IdentExpected, errs.Errors[0].Code)

	rule := sheet.Rules[0].(*ast.StyleRule)
	_, hasColor := rule.Style.Get("color")
	assert.False(t, hasColor)
	_, hasFontSize := rule.Style.Get("font-size")
	assert.True(t, hasFontSize)
}

func TestParseStylesheet_FontFaceMissingBlockResyncsToOwnBlockOnly(t *testing.T) {
	sheet, errs := parse(t, `@font-face foo { color: red } a { color: blue }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.InvalidBlockStart, errs.Errors[0].Code)

	require.Len(t, sheet.Rules, 1)
	rule, ok := sheet.Rules[0].(*ast.StyleRule)
	require.True(t, ok)
	prop, ok := rule.Style.Get("color")
	require.True(t, ok)
	assert.Equal(t, "blue", identValue(t, prop.Value().Components[0]))
}

func TestParseStylesheet_KeyframeSelectorResyncDoesNotReplayStaleToken(t *testing.T) {
	sheet, errs := parse(t, `@keyframes spin { xyz { opacity: 0; } to { opacity: 1; } }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.InvalidSelector, errs.Errors[0].Code)

	kf, ok := sheet.Rules[0].(*ast.KeyframesRule)
	require.True(t, ok)
	require.Len(t, kf.Keyframes, 1)
	assert.Equal(t, []ast.KeyframeSelector{{Percentage: 100}}, kf.Keyframes[0].Selectors)
}

func TestParseStylesheet_MissingValueEmitsValueMissing(t *testing.T) {
	sheet, errs := parse(t, `a { color: ; font-size: 10px; }`)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, diag.ValueMissing, errs.Errors[0].Code)

	rule := sheet.Rules[0].(*ast.StyleRule)
	_, hasColor := rule.Style.Get("color")
	assert.False(t, hasColor)
	_, hasFontSize := rule.Style.Get("font-size")
	assert.True(t, hasFontSize)
}
