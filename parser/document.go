package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/token"
)

// consumeDocumentRule parses "@document <url-matching-function># { <rules> }".
// The at-keyword has already been consumed.
func (p *Parser) consumeDocumentRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()

	var funcs []ast.DocumentFunction
	for {
		tok := p.scan()
		switch t := tok.(type) {
		case *token.URL:
			funcs = append(funcs, ast.DocumentFunction{Name: "url", Arg: t.Value})
		case *token.Function:
			name := strings.ToLower(t.Value)
			arg := argStringFromTokens(p.collectUntilMatchingParen())
			funcs = append(funcs, ast.DocumentFunction{Name: name, Arg: arg})
		case *token.Whitespace, *token.Comma:
			// separators between functions
		case *token.CurlyBracketOpen:
			goto block
		case *token.EOF:
			p.errorf(diag.InvalidBlockStart, t.Position())
			return nil
		default:
			p.errorf(diag.InvalidToken, t.Position())
		}
	}

block:
	rule := &ast.DocumentRule{Base: ast.NewBase(parent, sheet), Functions: funcs}
	rule.Rules = p.consumeRuleList(sheet, rule, false)
	return rule
}

// argStringFromTokens extracts the single string or bare URL argument a
// url-prefix()/domain()/regexp() function takes.
func argStringFromTokens(toks []token.Token) string {
	for _, t := range toks {
		switch v := t.(type) {
		case *token.String:
			return v.Value
		case *token.Ident:
			return v.Value
		}
	}
	return ""
}
