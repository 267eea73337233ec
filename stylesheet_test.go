package css_test

import (
	"context"
	"strings"
	"testing"

	"github.com/csscore/css"
	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseStylesheet_Scenarios(t *testing.T) {
	t.Run("simple style rule", func(t *testing.T) {
		sheet := css.ParseStylesheet(source.NewString(`a { color: red }`), css.Config{})
		require.Len(t, sheet.Rules, 1)
		rule := sheet.Rules[0].(*ast.StyleRule)
		require.Equal(t, 1, rule.Style.Len())
		prop, ok := rule.Style.Get("color")
		require.True(t, ok)
		assert.False(t, prop.Important())
	})

	t.Run("duplicate declaration last write wins", func(t *testing.T) {
		sheet := css.ParseStylesheet(source.NewString(`a { color: red; color: blue; }`), css.Config{})
		rule := sheet.Rules[0].(*ast.StyleRule)
		assert.Equal(t, 1, rule.Style.Len())
	})

	t.Run("media rule with one constraint", func(t *testing.T) {
		sheet := css.ParseStylesheet(source.NewString(`@media (min-width: 640px) { a { color: red } }`), css.Config{})
		media := sheet.Rules[0].(*ast.MediaRule)
		require.Len(t, media.Media, 1)
		require.Len(t, media.Media[0].Features, 1)
		assert.Equal(t, "min-width", media.Media[0].Features[0].Name)
		require.Len(t, media.Rules, 1)
	})

	t.Run("supports or condition empty body", func(t *testing.T) {
		sheet := css.ParseStylesheet(source.NewString(`@supports (display: grid) or (display: flex) { }`), css.Config{})
		sup := sheet.Rules[0].(*ast.SupportsRule)
		or, ok := sup.Condition.(ast.OrCondition)
		require.True(t, ok)
		require.Len(t, or.Conds, 2)
		assert.Empty(t, sup.Rules)
	})

	t.Run("keyframes keyed by percentage", func(t *testing.T) {
		sheet := css.ParseStylesheet(source.NewString(`@keyframes spin { from { opacity: 0 } 50% { opacity: 0.5 } to { opacity: 1 } }`), css.Config{})
		kf := sheet.Rules[0].(*ast.KeyframesRule)
		assert.Equal(t, "spin", kf.Name)
		require.Len(t, kf.Keyframes, 3)
		assert.Equal(t, float64(0), kf.Keyframes[0].Selectors[0].Percentage)
		assert.Equal(t, float64(50), kf.Keyframes[1].Selectors[0].Percentage)
		assert.Equal(t, float64(100), kf.Keyframes[2].Selectors[0].Percentage)
	})

	t.Run("missing value reports error and recovers", func(t *testing.T) {
		sheet, codes := captureErrors(t, `a { color: ; color: red }`)
		require.NotEmpty(t, codes)
		assert.Equal(t, diag.ValueMissing, codes[0])
		rule := sheet.Rules[0].(*ast.StyleRule)
		assert.Equal(t, 1, rule.Style.Len())
		prop, ok := rule.Style.Get("color")
		require.True(t, ok)
		assert.Equal(t, "red", identValueText(t, prop))
	})

	t.Run("unknown at-rule recovers into next rule", func(t *testing.T) {
		sheet, codes := captureErrors(t, `@unknown foo { bar } a { color: red }`)
		require.NotEmpty(t, codes)
		assert.Equal(t, diag.UnknownAtRule, codes[0])
		require.Len(t, sheet.Rules, 2)
		_, ok := sheet.Rules[0].(*ast.UnknownAtRule)
		require.True(t, ok)
		_, ok = sheet.Rules[1].(*ast.StyleRule)
		require.True(t, ok)
	})
}

func captureErrors(t *testing.T, text string) (*ast.Stylesheet, []diag.Code) {
	t.Helper()
	var got []diag.Code
	cfg := css.Config{Listeners: []css.ErrorListener{
		css.ErrorListenerFunc(func(code diag.Code, pos token.Pos) { got = append(got, code) }),
	}}
	sheet := css.ParseStylesheet(source.NewString(text), cfg)
	return sheet, got
}

func identValueText(t *testing.T, prop css.Property) string {
	t.Helper()
	require.Len(t, prop.Value().Components, 1)
	leaf, ok := prop.Value().Components[0].(value.Leaf)
	require.True(t, ok)
	id, ok := leaf.Token.(*token.Ident)
	require.True(t, ok)
	return id.Value
}

func TestParseStylesheetAsync_SingleLatch(t *testing.T) {
	h := css.NewAsyncHandle(source.NewString(`a { color: red; }`), css.Config{})
	sheet1, err1 := h.Run(context.Background())
	require.NoError(t, err1)
	sheet2, err2 := h.Run(context.Background())
	require.NoError(t, err2)
	assert.Same(t, sheet1, sheet2)
}

func TestParseMediaList_Strict(t *testing.T) {
	list, err := css.ParseMediaList(`screen, print`, css.Config{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = css.ParseMediaList(`123`, css.Config{})
	assert.Error(t, err)
	var synErr *css.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestParseMedium_Strict(t *testing.T) {
	m, err := css.ParseMedium(`screen`, css.Config{})
	require.NoError(t, err)
	assert.Equal(t, "screen", m.Type)
}

func TestParseSelectorAndValue(t *testing.T) {
	sel := css.ParseSelector(`a.link:hover`)
	require.NotNil(t, sel)
	require.Len(t, sel.Complex, 1)

	val := css.ParseValue(`red`)
	require.NotNil(t, val)
	require.Len(t, val.Components, 1)
}

func TestParseRule(t *testing.T) {
	rule, ok := css.ParseRule(`a { color: red; }`, css.Config{})
	require.True(t, ok)
	_, isStyle := rule.(*ast.StyleRule)
	assert.True(t, isStyle)
}

func TestParseDeclarationAndDeclarations(t *testing.T) {
	prop, ok := css.ParseDeclaration(`color: red`, css.Config{})
	require.True(t, ok)
	assert.False(t, prop.Important())

	block := css.ParseDeclarations(`color: red; font-size: 12px;`, css.Config{})
	assert.Equal(t, 2, block.Len())
}

func TestParseCondition(t *testing.T) {
	cond := css.ParseCondition(`(display: grid)`, css.Config{})
	require.NotNil(t, cond)
	decl, ok := cond.(ast.DeclarationCondition)
	require.True(t, ok)
	assert.Equal(t, "display", decl.Name)
}

func TestParseDocumentRules(t *testing.T) {
	funcs := css.ParseDocumentRules(`url-prefix("https://example.com/")`, css.Config{})
	require.Len(t, funcs, 1)
	assert.Equal(t, "url-prefix", funcs[0].Name)
}

func TestParseKeyframeSelectorAndRule(t *testing.T) {
	sels, ok := css.ParseKeyframeSelector(`50%, 75%`, css.Config{})
	require.True(t, ok)
	require.Len(t, sels, 2)

	kf, ok := css.ParseKeyframeRule(`from { opacity: 0; }`, css.Config{})
	require.True(t, ok)
	assert.Equal(t, float64(0), kf.Selectors[0].Percentage)
}

func TestParseStylesheet_DefaultEncoding(t *testing.T) {
	// ".caf\xE9" is "café" in Windows-1252; 0xE9 would be invalid UTF-8 if
	// decoded raw, so a correct class name requires the transcode to happen.
	raw := []byte{'.', 'c', 'a', 'f', 0xE9, ' ', '{', ' ', '}'}
	src := source.New(strings.NewReader(string(raw)))
	cfg := css.Config{DefaultEncoding: charmap.Windows1252}

	sheet := css.ParseStylesheet(src, cfg)
	require.Len(t, sheet.Rules, 1)
	rule := sheet.Rules[0].(*ast.StyleRule)
	require.NotNil(t, rule.Selector)
	assert.Equal(t, ".café { }", css.Sprint(sheet))
}

func TestUnknownPropertyFactory_RoundTrips(t *testing.T) {
	sheet := css.ParseStylesheet(source.NewString(`a { -moz-appearance: none; }`), css.Config{})
	rule := sheet.Rules[0].(*ast.StyleRule)
	_, ok := rule.Style.Get("-moz-appearance")
	assert.True(t, ok)
}
