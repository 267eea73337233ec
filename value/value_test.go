package value_test

import (
	"testing"

	"github.com/csscore/css/scanner"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, s string) *value.Builder {
	t.Helper()
	sc := scanner.New(source.NewString(s), nil)
	sc.SetMode(scanner.Value)
	b := value.New()
	for {
		tok := sc.Scan()
		if _, ok := tok.(*token.EOF); ok {
			break
		}
		b.Apply(tok)
	}
	return b
}

func TestBuilder_SimpleValue(t *testing.T) {
	b := build(t, "red")
	require.True(t, b.IsReady())
	res := b.Result()
	require.Len(t, res.Components, 1)
	leaf := res.Components[0].(value.Leaf)
	assert.Equal(t, "red", leaf.Token.(*token.Ident).Value)
	assert.False(t, res.Important)
}

func TestBuilder_Important(t *testing.T) {
	b := build(t, "red !important")
	require.True(t, b.IsReady())
	assert.True(t, b.IsImportant())
	res := b.Result()
	require.True(t, res.Important)
	require.Len(t, res.Components, 1)
}

func TestBuilder_ImportantCaseInsensitive(t *testing.T) {
	b := build(t, "red ! IMPORTANT")
	assert.True(t, b.IsImportant())
}

func TestBuilder_FunctionArgs(t *testing.T) {
	b := build(t, "rgba(0, 0, 0, 0.5)")
	require.True(t, b.IsReady())
	res := b.Result()
	require.Len(t, res.Components, 1)
	fn := res.Components[0].(value.Function)
	assert.Equal(t, "rgba", fn.Name)
	// four numbers, three commas and the whitespace after each comma => 10
	// components inside.
	assert.Len(t, fn.Args, 10)
}

func TestBuilder_NestedFunctions(t *testing.T) {
	b := build(t, "calc(10px + var(--gap))")
	require.True(t, b.IsReady())
	res := b.Result()
	fn := res.Components[0].(value.Function)
	assert.Equal(t, "calc", fn.Name)
	var sawNested bool
	for _, c := range fn.Args {
		if inner, ok := c.(value.Function); ok && inner.Name == "var" {
			sawNested = true
		}
	}
	assert.True(t, sawNested)
}

func TestBuilder_ResultNilWhenEmpty(t *testing.T) {
	b := build(t, "")
	assert.True(t, b.IsReady())
	assert.Nil(t, b.Result())
}

func TestBuilder_ResultNilWhenOnlyImportant(t *testing.T) {
	b := build(t, "  !important  ")
	assert.True(t, b.IsReady())
	assert.Nil(t, b.Result())
}

func TestBuilder_IsReadyFalseWhileUnbalanced(t *testing.T) {
	b := build(t, "calc(10px + 5px")
	assert.False(t, b.IsReady())
	assert.Nil(t, b.Result())
}

func TestBuilder_Reset(t *testing.T) {
	b := build(t, "calc(10px")
	require.False(t, b.IsReady())
	b.Reset()

	sc := scanner.New(source.NewString("blue"), nil)
	sc.SetMode(scanner.Value)
	b.Apply(sc.Scan())
	assert.True(t, b.IsReady())
}
