// Package selector builds a Selector tree from a token stream produced by
// the scanner in selector mode. Constructor buffers tokens as they arrive
// and parses them lazily on IsValid/Result, so the caller can feed it one
// token at a time between resync points without the package needing its own
// lookahead buffer over the scanner.
package selector

import (
	"strings"

	"github.com/csscore/css/token"
)

// Combinator identifies how a CompoundSelector relates to the one before it
// in a ComplexSelector. The first compound in a list has CombinatorNone.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant          // "a b"
	CombinatorChild               // "a > b"
	CombinatorNextSibling         // "a + b"
	CombinatorSubsequentSibling   // "a ~ b"
	CombinatorColumn              // "a || b"
)

// Selector is a comma-separated selector list.
type Selector struct {
	Complex []ComplexSelector
}

// ComplexSelector is a sequence of compound selectors joined by combinators.
type ComplexSelector struct {
	Compounds []CompoundSelector
}

// CompoundSelector is a type selector plus zero or more subclass selectors,
// with no whitespace between them.
type CompoundSelector struct {
	Combinator Combinator
	Type       *TypeSelector // nil when the compound starts with a subclass selector
	Subclasses []SimpleSelector
}

// TypeSelector matches an element name, or "*" for the universal selector.
type TypeSelector struct {
	Namespace string // "" when unspecified, "*" for any namespace
	Name      string // "*" for the universal selector
}

// SimpleSelector is implemented by every subclass-selector kind.
type SimpleSelector interface {
	simpleSelector()
}

type IDSelector struct{ Value string }
type ClassSelector struct{ Value string }

// AttributeSelector matches "[name]", "[name=value]", and the prefix/suffix/
// substring/includes/dash matcher forms.
type AttributeSelector struct {
	Namespace       string
	Name            string
	Matcher         string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value           string
	CaseInsensitive bool
}

// PseudoClass is a pseudo-class with no functional arguments, e.g. ":hover".
type PseudoClass struct{ Name string }

// PseudoElement is a "::name" pseudo-element.
type PseudoElement struct{ Name string }

// FunctionalPseudo is a pseudo-class written as a function, e.g.
// ":nth-child(2n+1)" or ":not(.a, .b)". Nested holds the parsed selector
// list for the pseudos whose argument grammar is itself a selector list
// (not, is, where, has, matches); for every other functional pseudo it is
// nil. Args holds the raw token arguments in both cases.
type FunctionalPseudo struct {
	Name   string
	Args   []token.Token
	Nested []ComplexSelector
}

func (IDSelector) simpleSelector()        {}
func (ClassSelector) simpleSelector()     {}
func (AttributeSelector) simpleSelector() {}
func (PseudoClass) simpleSelector()       {}
func (PseudoElement) simpleSelector()     {}
func (FunctionalPseudo) simpleSelector()  {}

// selectorListPseudos take a selector list as their argument grammar rather
// than an arbitrary token sequence.
var selectorListPseudos = map[string]bool{
	"not": true, "is": true, "where": true, "has": true,
	"matches": true, // vendor-era alias for :is, still seen in the wild
}

// Constructor accumulates tokens for one selector list and parses them on
// demand. A zero Constructor is ready to use.
type Constructor struct {
	toks []token.Token
}

// New returns a ready Constructor.
func New() *Constructor { return &Constructor{} }

// Reset discards any buffered tokens so the Constructor can be reused for
// the next selector list.
func (c *Constructor) Reset() { c.toks = c.toks[:0] }

// Apply appends tok to the buffer. Leading and trailing whitespace tokens
// are kept; they carry meaning (the descendant combinator).
func (c *Constructor) Apply(tok token.Token) {
	if _, ok := tok.(*token.EOF); ok {
		return
	}
	c.toks = append(c.toks, tok)
}

// IsValid reports whether the buffered tokens parse as a non-empty selector
// list per the grammar in parseSelectorList.
func (c *Constructor) IsValid() bool {
	_, ok := c.parse()
	return ok
}

// Result returns the parsed selector list, or nil if the buffered tokens do
// not form a valid one.
func (c *Constructor) Result() *Selector {
	sel, ok := c.parse()
	if !ok {
		return nil
	}
	return sel
}

func (c *Constructor) parse() (*Selector, bool) {
	p := &selParser{toks: trimEdgeWhitespace(c.toks)}
	return p.parseSelectorList()
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

// selParser is a one-shot recursive-descent parser over an already
// materialized token slice; it never talks to the scanner directly, which
// lets functional pseudos recurse into their bracketed argument list without
// re-entering the scanner.
type selParser struct {
	toks []token.Token
	pos  int
}

func (p *selParser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return p.toks[p.pos]
}

func (p *selParser) advance() token.Token {
	tok := p.cur()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *selParser) skipWhitespace() bool {
	saw := false
	for {
		if _, ok := p.cur().(*token.Whitespace); ok {
			saw = true
			p.pos++
			continue
		}
		return saw
	}
}

func (p *selParser) parseSelectorList() (*Selector, bool) {
	if len(p.toks) == 0 {
		return nil, false
	}
	sel := &Selector{}
	for {
		cs, ok := p.parseComplexSelector()
		if !ok {
			return nil, false
		}
		sel.Complex = append(sel.Complex, cs)

		p.skipWhitespace()
		if _, ok := p.cur().(*token.Comma); !ok {
			break
		}
		p.advance()
		p.skipWhitespace()
	}
	if p.cur() != nil {
		return nil, false // trailing garbage
	}
	return sel, true
}

func (p *selParser) parseComplexSelector() (ComplexSelector, bool) {
	var cs ComplexSelector

	first, ok := p.parseCompoundSelector()
	if !ok {
		return cs, false
	}
	first.Combinator = CombinatorNone
	cs.Compounds = append(cs.Compounds, first)

	for {
		hadSpace := p.skipWhitespace()
		comb, explicit, ok := p.peekCombinator()
		if !ok {
			if !hadSpace {
				return cs, true
			}
			// whitespace not followed by a combinator token: either more
			// selector follows (descendant combinator) or the list/argument
			// ends here.
			if p.cur() == nil || isListTerminator(p.cur()) {
				return cs, true
			}
			comb = CombinatorDescendant
		} else if explicit {
			p.consumeCombinator()
			p.skipWhitespace()
		}

		next, ok := p.parseCompoundSelector()
		if !ok {
			return cs, false
		}
		next.Combinator = comb
		cs.Compounds = append(cs.Compounds, next)
	}
}

func isListTerminator(tok token.Token) bool {
	switch tok.(type) {
	case *token.Comma, *token.RoundBracketClose:
		return true
	}
	return false
}

// peekCombinator reports the explicit combinator token at the current
// position without consuming it; consumeCombinator consumes it. ">" is
// accepted both as the delimiter selector mode produces and as the
// GreaterThan token value mode produces.
func (p *selParser) peekCombinator() (c Combinator, explicit bool, ok bool) {
	switch p.cur().(type) {
	case *token.GreaterThan:
		return CombinatorChild, true, true
	case *token.Delim:
		if d := p.cur().(*token.Delim); d.Value == ">" {
			return CombinatorChild, true, true
		} else if d.Value == "+" {
			return CombinatorNextSibling, true, true
		} else if d.Value == "~" {
			return CombinatorSubsequentSibling, true, true
		}
		return 0, false, false
	case *token.Column:
		return CombinatorColumn, true, true
	}
	return 0, false, false
}

func (p *selParser) consumeCombinator() { p.advance() }

func (p *selParser) parseCompoundSelector() (CompoundSelector, bool) {
	var cc CompoundSelector

	if ts, ok := p.tryParseTypeSelector(); ok {
		cc.Type = ts
	}

	for {
		switch tok := p.cur().(type) {
		case *token.Hash:
			cc.Subclasses = append(cc.Subclasses, IDSelector{Value: tok.Value})
			p.advance()
		case *token.Delim:
			if tok.Value != "." {
				goto done
			}
			p.advance()
			id, ok := p.cur().(*token.Ident)
			if !ok {
				return cc, false
			}
			p.advance()
			cc.Subclasses = append(cc.Subclasses, ClassSelector{Value: id.Value})
		case *token.SquareBracketOpen:
			attr, ok := p.parseAttributeSelector()
			if !ok {
				return cc, false
			}
			cc.Subclasses = append(cc.Subclasses, attr)
		case *token.Colon:
			p.advance()
			ss, ok := p.parsePseudo()
			if !ok {
				return cc, false
			}
			cc.Subclasses = append(cc.Subclasses, ss)
		default:
			goto done
		}
	}
done:
	if cc.Type == nil && len(cc.Subclasses) == 0 {
		return cc, false
	}
	return cc, true
}

func (p *selParser) tryParseTypeSelector() (*TypeSelector, bool) {
	start := p.pos
	ns := ""
	if p.isNamespacePrefix() {
		ns = p.consumeNamespacePrefix()
	}
	switch tok := p.cur().(type) {
	case *token.Ident:
		p.advance()
		return &TypeSelector{Namespace: ns, Name: tok.Value}, true
	case *token.Delim:
		if tok.Value == "*" {
			p.advance()
			return &TypeSelector{Namespace: ns, Name: "*"}, true
		}
	}
	p.pos = start
	return nil, false
}

// isNamespacePrefix looks ahead for "ident|" or "*|" that is not itself the
// "|=" dash-match operator (the scanner already folds "|=" into a single
// DashMatch token, so a standalone "|" here is unambiguous).
func (p *selParser) isNamespacePrefix() bool {
	save := p.pos
	defer func() { p.pos = save }()

	cur := p.cur()
	if cur == nil {
		return false
	}
	switch tok := cur.(type) {
	case *token.Ident:
		// any identifier may be a namespace prefix
	case *token.Delim:
		if tok.Value != "*" {
			return false
		}
	default:
		return false
	}
	p.pos++
	d, ok := p.cur().(*token.Delim)
	return ok && d.Value == "|"
}

func (p *selParser) consumeNamespacePrefix() string {
	var ns string
	switch tok := p.advance().(type) {
	case *token.Ident:
		ns = tok.Value
	case *token.Delim:
		ns = tok.Value
	}
	p.advance() // the "|"
	return ns
}

func (p *selParser) parseAttributeSelector() (AttributeSelector, bool) {
	var a AttributeSelector
	p.advance() // '['
	p.skipWhitespace()

	if p.isNamespacePrefix() {
		a.Namespace = p.consumeNamespacePrefix()
	}
	ident, ok := p.cur().(*token.Ident)
	if !ok {
		return a, false
	}
	a.Name = ident.Value
	p.advance()
	p.skipWhitespace()

	if _, ok := p.cur().(*token.SquareBracketClose); ok {
		p.advance()
		return a, true
	}

	switch tok := p.cur().(type) {
	case *token.Delim:
		if tok.Value != "=" {
			return a, false
		}
		a.Matcher = "="
		p.advance()
	case *token.IncludeMatch:
		a.Matcher = "~="
		p.advance()
	case *token.DashMatch:
		a.Matcher = "|="
		p.advance()
	case *token.PrefixMatch:
		a.Matcher = "^="
		p.advance()
	case *token.SuffixMatch:
		a.Matcher = "$="
		p.advance()
	case *token.SubstringMatch:
		a.Matcher = "*="
		p.advance()
	default:
		return a, false
	}
	p.skipWhitespace()

	switch tok := p.cur().(type) {
	case *token.String:
		a.Value = tok.Value
	case *token.Ident:
		a.Value = tok.Value
	default:
		return a, false
	}
	p.advance()
	p.skipWhitespace()

	if id, ok := p.cur().(*token.Ident); ok && (id.Value == "i" || id.Value == "I") {
		a.CaseInsensitive = true
		p.advance()
		p.skipWhitespace()
	}

	if _, ok := p.cur().(*token.SquareBracketClose); !ok {
		return a, false
	}
	p.advance()
	return a, true
}

func (p *selParser) parsePseudo() (SimpleSelector, bool) {
	if _, ok := p.cur().(*token.Colon); ok {
		p.advance()
		id, ok := p.cur().(*token.Ident)
		if !ok {
			return nil, false
		}
		p.advance()
		return PseudoElement{Name: id.Value}, true
	}

	switch tok := p.cur().(type) {
	case *token.Ident:
		p.advance()
		return PseudoClass{Name: tok.Value}, true
	case *token.Function:
		p.advance()
		name := strings.ToLower(tok.Value)
		args, ok := p.collectBalancedArgs()
		if !ok {
			return nil, false
		}
		fp := FunctionalPseudo{Name: tok.Value, Args: args}
		if selectorListPseudos[name] {
			nested := &selParser{toks: args}
			nestedSel, ok := nested.parseSelectorList()
			if !ok {
				return nil, false
			}
			fp.Nested = nestedSel.Complex
		}
		return fp, true
	}
	return nil, false
}

// collectBalancedArgs consumes tokens up to (and including) the ")" that
// closes the Function token already consumed by the caller, tracking
// nested brackets so an inner "(...)" doesn't terminate early.
func (p *selParser) collectBalancedArgs() ([]token.Token, bool) {
	depth := 0
	var args []token.Token
	for {
		tok := p.cur()
		if tok == nil {
			return nil, false
		}
		switch tok.(type) {
		case *token.RoundBracketClose:
			if depth == 0 {
				p.advance()
				return args, true
			}
			depth--
		case *token.RoundBracketOpen, *token.SquareBracketOpen, *token.CurlyBracketOpen:
			depth++
		case *token.SquareBracketClose, *token.CurlyBracketClose:
			depth--
		}
		args = append(args, tok)
		p.advance()
	}
}
