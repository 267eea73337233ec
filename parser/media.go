package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
)

// consumeMediaRule parses "@media <media-list> { <rules> }".
func (p *Parser) consumeMediaRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.setMode(scanner.Value)
	media := p.consumeMediaList(isCurlyOpenOrSemiOrEOF)
	p.setMode(scanner.Data)

	p.skipWhitespace()
	if _, ok := p.scan().(*token.CurlyBracketOpen); !ok {
		p.errorf(diag.InvalidBlockStart, p.current().Position())
		p.skipUnknownRule()
		return nil
	}

	rule := &ast.MediaRule{Base: ast.NewBase(parent, sheet), Media: media}
	rule.Rules = p.consumeRuleList(sheet, rule, false)
	return rule
}

// consumeMediaList parses a comma-separated media query list. stop reports
// whether the current token ends the list (the caller hasn't consumed it);
// the scanner should already be in scanner.Value mode so range-comparator
// tokens are produced correctly.
func (p *Parser) consumeMediaList(stop func(token.Token) bool) []ast.CssMedium {
	var list []ast.CssMedium
	for {
		p.skipWhitespace()
		if stop(p.peek()) {
			return list
		}
		m, ok := p.consumeMedium()
		if !ok {
			return list
		}
		list = append(list, m)

		p.skipWhitespace()
		if _, ok := p.scan().(*token.Comma); !ok {
			p.unscan()
			return list
		}
	}
}

func (p *Parser) consumeMedium() (ast.CssMedium, bool) {
	var m ast.CssMedium

	tok := p.scan()
	switch t := tok.(type) {
	case *token.Ident:
		lower := strings.ToLower(t.Value)
		if lower == "not" || lower == "only" {
			m.Modifier = lower
			p.skipWhitespace()
			id, ok := p.scan().(*token.Ident)
			if !ok {
				p.unscan()
				return m, false
			}
			m.Type = id.Value
		} else {
			m.Type = t.Value
		}
	case *token.RoundBracketOpen:
		m.Type = "all"
		feat, ok := p.consumeMediaFeature()
		if !ok {
			return m, false
		}
		m.Features = append(m.Features, feat)
	default:
		p.unscan()
		return m, false
	}

	for {
		p.skipWhitespace()
		tok := p.scan()
		id, ok := tok.(*token.Ident)
		if !ok || !strings.EqualFold(id.Value, "and") {
			p.unscan()
			return m, true
		}
		p.skipWhitespace()
		if _, ok := p.scan().(*token.RoundBracketOpen); !ok {
			p.unscan()
			return m, false
		}
		feat, ok := p.consumeMediaFeature()
		if !ok {
			return m, false
		}
		m.Features = append(m.Features, feat)
	}
}

// consumeMediaFeature parses one "(name)", "(name: value)", or
// "(name <op> value)" feature; the opening "(" has already been consumed.
func (p *Parser) consumeMediaFeature() (ast.MediaFeature, bool) {
	var f ast.MediaFeature
	p.skipWhitespace()

	ident, ok := p.scan().(*token.Ident)
	if !ok {
		return f, false
	}
	f.Name = ident.Value
	p.skipWhitespace()

	tok := p.scan()
	switch tok.(type) {
	case *token.RoundBracketClose:
		return f, true
	case *token.Colon:
		p.skipWhitespace()
		f.Value = p.consumeFeatureValue()
		p.skipWhitespace()
		if _, ok := p.scan().(*token.RoundBracketClose); !ok {
			return f, false
		}
		return f, true
	default:
		op, ok := comparatorOp(tok)
		if !ok {
			return f, false
		}
		f.Op = op
		p.skipWhitespace()
		f.Value = p.consumeFeatureValue()
		p.skipWhitespace()
		if _, ok := p.scan().(*token.RoundBracketClose); !ok {
			return f, false
		}
		return f, true
	}
}

func comparatorOp(tok token.Token) (string, bool) {
	switch t := tok.(type) {
	case *token.GreaterThan:
		return ">", true
	case *token.GreaterThanOrEqual:
		return ">=", true
	case *token.LessThan:
		return "<", true
	case *token.LessThanOrEqual:
		return "<=", true
	case *token.Delim:
		if t.Value == "=" {
			return "=", true
		}
	}
	return "", false
}

// consumeFeatureValue collects tokens up to (but not including) the ")"
// that closes the enclosing feature, tolerating nested function/bracket
// groups such as "calc(...)" inside the value.
func (p *Parser) consumeFeatureValue() *value.Value {
	depth := 0
	b := value.New()
	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.EOF:
			return b.Result()
		case *token.RoundBracketClose:
			if depth == 0 {
				p.unscan()
				return b.Result()
			}
			depth--
		case *token.RoundBracketOpen, *token.Function:
			depth++
		}
		b.Apply(tok)
	}
}
