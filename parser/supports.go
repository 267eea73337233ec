package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/selector"
	"github.com/csscore/css/token"
)

// consumeSupportsRule parses "@supports <condition> { <rules> }".
func (p *Parser) consumeSupportsRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.setMode(scanner.Value)
	p.skipWhitespace()
	cond, ok := p.consumeSupportsCondition()
	p.setMode(scanner.Data)
	if !ok {
		p.errorf(diag.InvalidToken, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	p.skipWhitespace()
	if _, ok := p.scan().(*token.CurlyBracketOpen); !ok {
		p.errorf(diag.InvalidBlockStart, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	rule := &ast.SupportsRule{Base: ast.NewBase(parent, sheet), Condition: cond}
	rule.Rules = p.consumeRuleList(sheet, rule, false)
	return rule
}

// consumeSupportsCondition implements the <supports-condition> grammar:
// a leading "not", or a chain of "and"s, or a chain of "or"s (mixing and/or
// at the same nesting level without parentheses is not well-formed and
// simply stops the chain early here).
func (p *Parser) consumeSupportsCondition() (ast.Condition, bool) {
	p.skipWhitespace()
	if id, ok := p.peek().(*token.Ident); ok && strings.EqualFold(id.Value, "not") {
		p.scan()
		p.skipWhitespace()
		cond, ok := p.consumeSupportsInParens()
		if !ok {
			return nil, false
		}
		return ast.NotCondition{Cond: cond}, true
	}

	first, ok := p.consumeSupportsInParens()
	if !ok {
		return nil, false
	}

	p.skipWhitespace()
	id, isIdent := p.peek().(*token.Ident)
	if !isIdent {
		return first, true
	}

	switch strings.ToLower(id.Value) {
	case "and":
		conds := []ast.Condition{first}
		for {
			p.skipWhitespace()
			id2, ok := p.peek().(*token.Ident)
			if !ok || !strings.EqualFold(id2.Value, "and") {
				break
			}
			p.scan()
			p.skipWhitespace()
			c, ok := p.consumeSupportsInParens()
			if !ok {
				return nil, false
			}
			conds = append(conds, c)
		}
		return ast.AndCondition{Conds: conds}, true
	case "or":
		conds := []ast.Condition{first}
		for {
			p.skipWhitespace()
			id2, ok := p.peek().(*token.Ident)
			if !ok || !strings.EqualFold(id2.Value, "or") {
				break
			}
			p.scan()
			p.skipWhitespace()
			c, ok := p.consumeSupportsInParens()
			if !ok {
				return nil, false
			}
			conds = append(conds, c)
		}
		return ast.OrCondition{Conds: conds}, true
	default:
		return first, true
	}
}

// consumeSupportsInParens parses "(<condition>)", "(<declaration>)", or
// "selector(<complex-selector>)".
func (p *Parser) consumeSupportsInParens() (ast.Condition, bool) {
	tok := p.scan()
	if fn, ok := tok.(*token.Function); ok && strings.EqualFold(fn.Value, "selector") {
		args := p.collectUntilMatchingParen()
		ctor := selector.New()
		for _, t := range args {
			ctor.Apply(t)
		}
		sel := ctor.Result()
		if sel == nil {
			return nil, false
		}
		return ast.SelectorCondition{Selector: sel}, true
	}

	if _, ok := tok.(*token.RoundBracketOpen); !ok {
		p.unscan()
		return nil, false
	}
	p.skipWhitespace()

	if p.looksLikeDeclaration() {
		name := p.scan().(*token.Ident).Value
		p.skipWhitespace()
		p.scan() // ':'
		p.skipWhitespace()
		val := p.consumeFeatureValue()
		p.skipWhitespace()
		if _, ok := p.scan().(*token.RoundBracketClose); !ok {
			return nil, false
		}
		return ast.DeclarationCondition{Name: name, Value: val}, true
	}

	cond, ok := p.consumeSupportsCondition()
	if !ok {
		return nil, false
	}
	p.skipWhitespace()
	if _, ok := p.scan().(*token.RoundBracketClose); !ok {
		return nil, false
	}
	return ast.GroupCondition{Cond: cond}, true
}

// looksLikeDeclaration peeks past an ident and any whitespace for a colon,
// without permanently consuming either.
func (p *Parser) looksLikeDeclaration() bool {
	id, ok := p.scan().(*token.Ident)
	if !ok {
		p.unscan()
		return false
	}
	n := 1
	for {
		t := p.scan()
		n++
		if _, ok := t.(*token.Whitespace); ok {
			continue
		}
		_, isColon := t.(*token.Colon)
		for i := 0; i < n; i++ {
			p.unscan()
		}
		_ = id
		return isColon
	}
}

// collectUntilMatchingParen returns the tokens up to (not including) the
// ")" that closes the function or group already opened by the caller.
func (p *Parser) collectUntilMatchingParen() []token.Token {
	depth := 0
	var toks []token.Token
	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.EOF:
			return toks
		case *token.RoundBracketClose:
			if depth == 0 {
				return toks
			}
			depth--
		case *token.RoundBracketOpen, *token.Function:
			depth++
		}
		toks = append(toks, tok)
	}
}
