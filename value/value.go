// Package value builds a property value's component-value tree from the
// token stream produced by the scanner in value mode, tracking bracket
// depth and a trailing "!important" the way the declaration grammar
// requires. It mirrors the component-value shape used for at-rule preludes
// (plain tokens, nested functions, and bracketed blocks) rather than
// resolving the value to any particular CSS property's grammar.
package value

import (
	"strings"

	"github.com/csscore/css/token"
)

// Component is implemented by every node that can appear in a value tree:
// a plain token, a Function, or a Block.
type Component interface {
	component()
}

// Leaf wraps a single token that carries no nested structure (idents,
// numbers, strings, delimiters, and so on).
type Leaf struct {
	Token token.Token
}

// Function is a "name(...)" component; Args holds its parsed contents.
type Function struct {
	Name string
	Args []Component
}

// Block is a "{...}" or "[...]" bracketed component. Round-bracket groups
// that are not a function call (a bare "(...)") use Block too, with Open
// set to '('.
type Block struct {
	Open   rune // '{', '[', or '('
	Values []Component
}

func (Leaf) component()     {}
func (Function) component() {}
func (Block) component()    {}

// Value is the parsed result of one declaration's value tokens.
type Value struct {
	Components []Component
	Important  bool
}

// Builder accumulates tokens for one declaration value. A zero Builder is
// ready to use.
type Builder struct {
	toks []token.Token
}

// New returns a ready Builder.
func New() *Builder { return &Builder{} }

// Reset discards buffered tokens so the Builder can be reused.
func (b *Builder) Reset() { b.toks = b.toks[:0] }

// Apply appends tok to the buffer.
func (b *Builder) Apply(tok token.Token) {
	if _, ok := tok.(*token.EOF); ok {
		return
	}
	b.toks = append(b.toks, tok)
}

// IsReady reports whether the buffered tokens form a balanced value: every
// opened bracket or function argument list has been closed. Result returns
// nil while it is false. The rule parser does not consult it: a declaration
// value ends at the first ";" or "}" it scans.
func (b *Builder) IsReady() bool {
	depth := 0
	for _, tok := range b.toks {
		switch tok.(type) {
		case *token.Function, *token.RoundBracketOpen, *token.SquareBracketOpen, *token.CurlyBracketOpen:
			depth++
		case *token.RoundBracketClose, *token.SquareBracketClose, *token.CurlyBracketClose:
			depth--
		}
	}
	return depth == 0
}

// IsImportant reports whether the buffered tokens end in "!important",
// ignoring trailing whitespace and the case of "important".
func (b *Builder) IsImportant() bool {
	_, ok := stripImportant(trimEdgeWhitespace(b.toks))
	return ok
}

// Result parses the buffered tokens into a Value, or returns nil if they are
// not balanced (see IsReady) or carry no components once whitespace and a
// trailing "!important" are stripped — an empty value is not a value.
func (b *Builder) Result() *Value {
	if !b.IsReady() {
		return nil
	}
	toks := trimEdgeWhitespace(b.toks)
	toks, important := stripImportant(toks)
	toks = trimEdgeWhitespace(toks)

	p := &valParser{toks: toks}
	comps := p.parseComponents(-1)
	if len(comps) == 0 {
		return nil
	}
	return &Value{Components: comps, Important: important}
}

// stripImportant removes a trailing "! important" (whitespace optional
// between the tokens) and reports whether one was found.
func stripImportant(toks []token.Token) ([]token.Token, bool) {
	i := len(toks)
	if i == 0 {
		return toks, false
	}
	if _, ok := toks[i-1].(*token.Ident); !ok {
		return toks, false
	}
	if !strings.EqualFold(toks[i-1].(*token.Ident).Value, "important") {
		return toks, false
	}
	i--
	for i > 0 {
		if _, ok := toks[i-1].(*token.Whitespace); ok {
			i--
			continue
		}
		break
	}
	if i == 0 {
		return toks, false
	}
	d, ok := toks[i-1].(*token.Delim)
	if !ok || d.Value != "!" {
		return toks, false
	}
	i--
	return toks[:i], true
}

func trimEdgeWhitespace(toks []token.Token) []token.Token {
	i, j := 0, len(toks)
	for i < j {
		if _, ok := toks[i].(*token.Whitespace); !ok {
			break
		}
		i++
	}
	for j > i {
		if _, ok := toks[j-1].(*token.Whitespace); !ok {
			break
		}
		j--
	}
	return toks[i:j]
}

// valParser walks an already materialized token slice and builds the
// component-value tree. closeAt is the rune that ends the current block
// ('}', ']', ')'), or -1 at the top level.
type valParser struct {
	toks []token.Token
	pos  int
}

func (p *valParser) parseComponents(closeAt rune) []Component {
	var out []Component
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if closeAt != -1 && isCloser(tok, closeAt) {
			p.pos++
			return out
		}
		out = append(out, p.parseOne())
	}
	return out
}

func isCloser(tok token.Token, closeAt rune) bool {
	switch closeAt {
	case '}':
		_, ok := tok.(*token.CurlyBracketClose)
		return ok
	case ']':
		_, ok := tok.(*token.SquareBracketClose)
		return ok
	case ')':
		_, ok := tok.(*token.RoundBracketClose)
		return ok
	}
	return false
}

func (p *valParser) parseOne() Component {
	tok := p.toks[p.pos]
	switch t := tok.(type) {
	case *token.Function:
		p.pos++
		args := p.parseComponents(')')
		return Function{Name: t.Value, Args: args}
	case *token.CurlyBracketOpen:
		p.pos++
		return Block{Open: '{', Values: p.parseComponents('}')}
	case *token.SquareBracketOpen:
		p.pos++
		return Block{Open: '[', Values: p.parseComponents(']')}
	case *token.RoundBracketOpen:
		p.pos++
		return Block{Open: '(', Values: p.parseComponents(')')}
	default:
		p.pos++
		return Leaf{Token: tok}
	}
}
