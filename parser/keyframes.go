package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/token"
)

// consumeKeyframesRule parses "@keyframes <name> { <keyframe-rule>* }". The
// at-keyword has already been consumed; atName is its raw spelling (a
// prefixed variant such as "-webkit-keyframes" is still honored).
func (p *Parser) consumeKeyframesRule(sheet *ast.Stylesheet, parent ast.Rule, atName string) ast.Rule {
	p.skipWhitespace()

	var name string
	switch t := p.scan().(type) {
	case *token.Ident:
		name = t.Value
	case *token.String:
		name = t.Value
	default:
		p.errorf(diag.IdentExpected, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	p.skipWhitespace()
	if _, ok := p.scan().(*token.CurlyBracketOpen); !ok {
		p.errorf(diag.InvalidBlockStart, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	rule := &ast.KeyframesRule{Base: ast.NewBase(parent, sheet), Name: name}
	for {
		p.skipWhitespace()
		tok := p.scan()
		switch tok.(type) {
		case *token.CurlyBracketClose, *token.EOF:
			return rule
		default:
			p.unscan()
			if kf := p.consumeKeyframeRule(sheet, rule); kf != nil {
				rule.Keyframes = append(rule.Keyframes, kf)
			}
		}
	}
}

// consumeKeyframeRule parses one "<keyframe-selector># { <declarations> }".
func (p *Parser) consumeKeyframeRule(sheet *ast.Stylesheet, parent *ast.KeyframesRule) *ast.KeyframeRule {
	var selectors []ast.KeyframeSelector
	for {
		p.skipWhitespace()
		pct, ok := p.consumeKeyframeSelector()
		if !ok {
			p.errorf(diag.InvalidSelector, p.current().Position())
			p.skipUnknownRule()
			return nil
		}
		selectors = append(selectors, ast.KeyframeSelector{Percentage: pct})

		p.skipWhitespace()
		if _, ok := p.scan().(*token.Comma); !ok {
			p.unscan()
			break
		}
	}

	if _, ok := p.scan().(*token.CurlyBracketOpen); !ok {
		p.errorf(diag.InvalidBlockStart, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	rule := &ast.KeyframeRule{
		Base:      ast.NewBase(parent, sheet),
		Selectors: selectors,
		Style:     ast.NewDeclarationBlock(),
	}
	p.consumeDeclarationsInto(rule.Style)
	return rule
}

func (p *Parser) consumeKeyframeSelector() (float64, bool) {
	switch t := p.scan().(type) {
	case *token.Ident:
		switch strings.ToLower(t.Value) {
		case "from":
			return 0, true
		case "to":
			return 100, true
		}
		p.unscan()
		return 0, false
	case *token.Percentage:
		return t.Number, true
	default:
		p.unscan()
		return 0, false
	}
}
