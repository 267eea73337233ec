package scanner_test

import (
	"testing"

	"github.com/csscore/css/diag"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, s string, mode scanner.Mode) (token.Token, *diag.Sink) {
	t.Helper()
	errs := &diag.Sink{}
	sc := scanner.New(source.NewString(s), errs)
	sc.SetMode(mode)
	return sc.Scan(), errs
}

func TestScanner_Scan(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want token.Token
	}{
		{"empty", ``, &token.EOF{}},
		{"whitespace", "  \n", &token.Whitespace{Value: "  \n"}},
		{"string-double", `"hello"`, &token.String{Value: "hello", Ending: '"'}},
		{"string-single", `'hello'`, &token.String{Value: "hello", Ending: '\''}},
		{"string-unterminated", `"foo`, &token.String{Value: "foo", Ending: '"'}},
		{"bad-string", "'foo\n", &token.BadString{}},
		{"integer", `10000`, &token.Integer{Value: "10000", Number: 10000}},
		{"number", `1.5`, &token.Number{Value: "1.5", Number: 1.5}},
		{"percentage", `50%`, &token.Percentage{Value: "50%", Number: 50}},
		{"dimension", `10px`, &token.Dimension{Value: "10px", Number: 10, Unit: "px"}},
		{"ident", `foo`, &token.Ident{Value: "foo"}},
		{"escaped-ident", `\2603`, &token.Ident{Value: "☃"}},
		{"at-keyword", `@media`, &token.AtKeyword{Value: "media"}},
		{"function", `calc(`, &token.Function{Value: "calc"}},
		{"hash-id", `#foo`, &token.Hash{Value: "foo", Type: "id"}},
		{"hash-unrestricted", `#1foo`, &token.Hash{Value: "1foo", Type: "unrestricted"}},
		{"url-bare", `url(foo)`, &token.URL{Value: "foo"}},
		{"url-quoted", `url("foo")`, &token.URL{Value: "foo"}},
		{"bad-url", `url(foo"x)`, &token.BadURL{}},
		{"delim", `^`, &token.Delim{Value: "^"}},
		{"cdo", `<!--`, &token.CDO{}},
		{"cdc", `-->`, &token.CDC{}},
		{"colon", `:`, &token.Colon{}},
		{"semicolon", `;`, &token.Semicolon{}},
		{"comma", `,`, &token.Comma{}},
		{"curly-open", `{`, &token.CurlyBracketOpen{}},
		{"curly-close", `}`, &token.CurlyBracketClose{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scanOne(t, tt.s, scanner.Data)
			assertSameShape(t, tt.want, got)
		})
	}
}

func TestScanner_SelectorModeMatchers(t *testing.T) {
	tests := []struct {
		s    string
		want token.Token
	}{
		{`~=`, &token.IncludeMatch{}},
		{`|=`, &token.DashMatch{}},
		{`^=`, &token.PrefixMatch{}},
		{`$=`, &token.SuffixMatch{}},
		{`*=`, &token.SubstringMatch{}},
		{`!=`, &token.NotMatch{}},
		{`||`, &token.Column{}},
	}
	for _, tt := range tests {
		got, _ := scanOne(t, tt.s, scanner.Selector)
		assertSameShape(t, tt.want, got)
	}

	// outside selector mode, "!=" never forms a NotMatch.
	got, _ := scanOne(t, `!=`, scanner.Data)
	if _, ok := got.(*token.Delim); !ok {
		t.Fatalf("expected Delim(\"!\") in data mode, got %#v", got)
	}
}

func TestScanner_ValueModeComparators(t *testing.T) {
	tests := []struct {
		s    string
		want token.Token
	}{
		{`>`, &token.GreaterThan{}},
		{`>=`, &token.GreaterThanOrEqual{}},
		{`<`, &token.LessThan{}},
		{`<=`, &token.LessThanOrEqual{}},
	}
	for _, tt := range tests {
		got, _ := scanOne(t, tt.s, scanner.Value)
		assertSameShape(t, tt.want, got)
	}
}

func TestScanner_CommentIsSkippedNotEmitted(t *testing.T) {
	errs := &diag.Sink{}
	sc := scanner.New(source.NewString("/* hi */foo"), errs)
	got := sc.Scan()
	ident, ok := got.(*token.Ident)
	require.True(t, ok, "expected comment to be skipped, got %#v", got)
	assert.Equal(t, "foo", ident.Value)
}

func TestScanner_UnterminatedCommentPublishesError(t *testing.T) {
	errs := &diag.Sink{}
	sc := scanner.New(source.NewString("/* never closes"), errs)
	got := sc.Scan()
	_, ok := got.(*token.EOF)
	assert.True(t, ok)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, diag.UnterminatedComment, errs.Errors[0].Code)
}

func TestScanner_SkipUnknownRule(t *testing.T) {
	sc := scanner.New(source.NewString(`{ a: b; } rest`), nil)
	sc.SkipUnknownRule()
	got := sc.Scan()
	ws, ok := got.(*token.Whitespace)
	require.True(t, ok, "expected whitespace before 'rest', got %#v", got)
	assert.Equal(t, " ", ws.Value)
}

func TestScanner_SkipUnknownRule_Semicolon(t *testing.T) {
	sc := scanner.New(source.NewString(`foo; rest`), nil)
	sc.SkipUnknownRule()
	got := sc.Scan()
	ws, ok := got.(*token.Whitespace)
	require.True(t, ok)
	assert.Equal(t, " ", ws.Value)
}

func TestScanner_JumpToNextSemicolon(t *testing.T) {
	sc := scanner.New(source.NewString(`foo(a; b); bar`), nil)
	sc.JumpToNextSemicolon()
	got := sc.Scan()
	ws, ok := got.(*token.Whitespace)
	require.True(t, ok, "expected whitespace before 'bar', got %#v", got)
	assert.Equal(t, " ", ws.Value)
}

func TestScanner_JumpToEndOfDeclaration_StopsBeforeCurlyClose(t *testing.T) {
	sc := scanner.New(source.NewString(`bad value } next`), nil)
	sc.JumpToEndOfDeclaration()
	got := sc.Scan()
	_, ok := got.(*token.CurlyBracketClose)
	require.True(t, ok, "expected '}' left as next token, got %#v", got)
}

func TestScanner_JumpToEndOfDeclaration_ConsumesSemicolon(t *testing.T) {
	sc := scanner.New(source.NewString(`bad value; next`), nil)
	sc.JumpToEndOfDeclaration()
	got := sc.Scan()
	ws, ok := got.(*token.Whitespace)
	require.True(t, ok)
	assert.Equal(t, " ", ws.Value)
}

func TestScanner_JumpToClosedArguments(t *testing.T) {
	sc := scanner.New(source.NewString(`a, (b, c), d) rest`), nil)
	sc.JumpToClosedArguments()
	got := sc.Scan()
	ws, ok := got.(*token.Whitespace)
	require.True(t, ok, "expected whitespace before 'rest', got %#v", got)
	assert.Equal(t, " ", ws.Value)
}

// assertSameShape compares tokens the way the table tests care about: kind
// plus the exported value fields, ignoring position (covered separately).
func assertSameShape(t *testing.T, want, got token.Token) {
	t.Helper()
	switch w := want.(type) {
	case *token.Whitespace:
		g, ok := got.(*token.Whitespace)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	case *token.String:
		g, ok := got.(*token.String)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Ending, g.Ending)
	case *token.Integer:
		g, ok := got.(*token.Integer)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Number, g.Number)
	case *token.Number:
		g, ok := got.(*token.Number)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Number, g.Number)
	case *token.Percentage:
		g, ok := got.(*token.Percentage)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Number, g.Number)
	case *token.Dimension:
		g, ok := got.(*token.Dimension)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Number, g.Number)
		assert.Equal(t, w.Unit, g.Unit)
	case *token.Ident:
		g, ok := got.(*token.Ident)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	case *token.AtKeyword:
		g, ok := got.(*token.AtKeyword)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	case *token.Function:
		g, ok := got.(*token.Function)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	case *token.Hash:
		g, ok := got.(*token.Hash)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
		assert.Equal(t, w.Type, g.Type)
	case *token.URL:
		g, ok := got.(*token.URL)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	case *token.Delim:
		g, ok := got.(*token.Delim)
		require.True(t, ok, "got %#v", got)
		assert.Equal(t, w.Value, g.Value)
	default:
		assert.IsType(t, want, got)
	}
}
