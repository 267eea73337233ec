package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
)

// The methods in this file back the "parse a single X" entry points (spec
// §6.2): each one parses exactly one construct from the whole token stream
// and reports whether anything besides trailing whitespace was left over,
// rather than driving the full stylesheet grammar.

func isEOF(tok token.Token) bool {
	_, ok := tok.(*token.EOF)
	return ok
}

// ParseDeclaration parses a single "name: value" with no terminator.
func (p *Parser) ParseDeclaration() (ast.Property, bool) {
	p.skipWhitespace()
	ident, ok := p.scan().(*token.Ident)
	if !ok {
		return nil, false
	}
	p.skipWhitespace()
	if _, ok := p.scan().(*token.Colon); !ok {
		return nil, false
	}
	p.skipWhitespace()

	p.setMode(scanner.Value)
	b := value.New()
	for !isEOF(p.peek()) {
		b.Apply(p.scan())
	}
	p.setMode(scanner.Data)

	val := b.Result()
	if val == nil {
		return nil, false
	}
	prop := p.newProperty(ident.Value)
	if !prop.TrySetValue(val) {
		return nil, false
	}
	return prop, true
}

// ParseDeclarations parses a bare list of declarations with no enclosing
// braces, terminated by Eof exactly as a "{...}" body is terminated by "}".
func (p *Parser) ParseDeclarations() *ast.DeclarationBlock {
	block := ast.NewDeclarationBlock()
	p.consumeDeclarationsInto(block)
	return block
}

// ParseMediaList parses a comma-separated media query list and reports
// whether the whole input was consumed.
func (p *Parser) ParseMediaList() ([]ast.CssMedium, bool) {
	p.setMode(scanner.Value)
	list := p.consumeMediaList(isEOF)
	p.setMode(scanner.Data)
	p.skipWhitespace()
	return list, isEOF(p.scan())
}

// ParseMedium parses a single medium (no comma-separated list) and reports
// whether the whole input was consumed.
func (p *Parser) ParseMedium() (ast.CssMedium, bool) {
	p.setMode(scanner.Value)
	p.skipWhitespace()
	m, ok := p.consumeMedium()
	p.setMode(scanner.Data)
	if !ok {
		return m, false
	}
	p.skipWhitespace()
	return m, isEOF(p.scan())
}

// ParseCondition parses a single @supports condition.
func (p *Parser) ParseCondition() (ast.Condition, bool) {
	p.setMode(scanner.Value)
	cond, ok := p.consumeSupportsCondition()
	p.setMode(scanner.Data)
	if !ok {
		return nil, false
	}
	p.skipWhitespace()
	if !isEOF(p.scan()) {
		return nil, false
	}
	return cond, true
}

// ParseDocumentRules parses an @document prelude's url-matching function
// list on its own, with no trailing "{".
func (p *Parser) ParseDocumentRules() ([]ast.DocumentFunction, bool) {
	var funcs []ast.DocumentFunction
	p.skipWhitespace()
	for {
		switch t := p.scan().(type) {
		case *token.URL:
			funcs = append(funcs, ast.DocumentFunction{Name: "url", Arg: t.Value})
		case *token.Function:
			arg := argStringFromTokens(p.collectUntilMatchingParen())
			funcs = append(funcs, ast.DocumentFunction{Name: strings.ToLower(t.Value), Arg: arg})
		case *token.Whitespace, *token.Comma:
		case *token.EOF:
			return funcs, true
		default:
			return nil, false
		}
	}
}

// ParseKeyframeSelector parses a comma-separated keyframe selector list on
// its own, e.g. "from" or "50%, 75%".
func (p *Parser) ParseKeyframeSelector() ([]ast.KeyframeSelector, bool) {
	var selectors []ast.KeyframeSelector
	for {
		p.skipWhitespace()
		pct, ok := p.consumeKeyframeSelector()
		if !ok {
			return nil, false
		}
		selectors = append(selectors, ast.KeyframeSelector{Percentage: pct})

		p.skipWhitespace()
		if _, ok := p.scan().(*token.Comma); !ok {
			p.unscan()
			break
		}
	}
	p.skipWhitespace()
	if !isEOF(p.scan()) {
		return nil, false
	}
	return selectors, true
}

// ParseKeyframeRule parses one "<selectors> { <declarations> }" on its own.
// The returned rule's back-references point at a throwaway KeyframesRule
// since there is no enclosing rule for a standalone parse.
func (p *Parser) ParseKeyframeRule(sheet *ast.Stylesheet) (*ast.KeyframeRule, bool) {
	owner := &ast.KeyframesRule{Base: ast.NewBase(nil, sheet)}
	rule := p.consumeKeyframeRule(sheet, owner)
	if rule == nil {
		return nil, false
	}
	p.skipWhitespace()
	if !isEOF(p.scan()) {
		return nil, false
	}
	return rule, true
}
