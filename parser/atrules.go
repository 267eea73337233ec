package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/token"
)

// consumeCharsetRule parses "@charset <string>;". The at-keyword has
// already been consumed.
func (p *Parser) consumeCharsetRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()
	str, ok := p.scan().(*token.String)
	if !ok {
		p.errorf(diag.IdentExpected, p.current().Position())
		p.jumpToNextSemicolon()
		return nil
	}
	p.skipWhitespace()
	if _, ok := p.scan().(*token.Semicolon); !ok {
		p.jumpToNextSemicolon()
	}
	return &ast.CharsetRule{Base: ast.NewBase(parent, sheet), Encoding: str.Value}
}

// consumeImportRule parses "@import <string-or-url> <media-list>? ;".
func (p *Parser) consumeImportRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()
	href, ok := p.consumeHrefToken()
	if !ok {
		p.errorf(diag.ValueMissing, p.current().Position())
		p.jumpToNextSemicolon()
		return nil
	}

	p.setMode(scanner.Value)
	media := p.consumeMediaList(isSemicolonOrEOF)
	p.setMode(scanner.Data)

	if _, ok := p.scan().(*token.Semicolon); !ok {
		p.jumpToNextSemicolon()
	}
	return &ast.ImportRule{Base: ast.NewBase(parent, sheet), Href: href, Media: media}
}

func (p *Parser) consumeHrefToken() (string, bool) {
	switch t := p.scan().(type) {
	case *token.String:
		return t.Value, true
	case *token.URL:
		return t.Value, true
	default:
		p.unscan()
		return "", false
	}
}

// consumeNamespaceRule parses "@namespace <prefix>? <string-or-url>;".
func (p *Parser) consumeNamespaceRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()
	rule := &ast.NamespaceRule{Base: ast.NewBase(parent, sheet)}

	if id, ok := p.scan().(*token.Ident); ok {
		rule.Prefix = id.Value
		p.skipWhitespace()
	} else {
		p.unscan()
	}

	uri, ok := p.consumeHrefToken()
	if !ok {
		p.errorf(diag.ValueMissing, p.current().Position())
		p.jumpToNextSemicolon()
		return nil
	}
	rule.URI = uri

	p.skipWhitespace()
	if _, ok := p.scan().(*token.Semicolon); !ok {
		p.jumpToNextSemicolon()
	}
	return rule
}

// consumePageRule parses "@page <selector>? { <declarations> }". The page
// selector grammar (pseudo-page classes like ":left") is narrow enough that
// it's kept as the raw text between "@page" and "{" rather than a full
// selector tree.
func (p *Parser) consumePageRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()
	var sel string
	for {
		tok := p.scan()
		switch t := tok.(type) {
		case *token.CurlyBracketOpen:
			goto block
		case *token.EOF:
			p.errorf(diag.InvalidBlockStart, tok.Position())
			return nil
		case *token.Whitespace:
			sel += " "
		case *token.Ident:
			sel += t.Value
		default:
			sel += tok.String()
		}
	}
block:
	sel = strings.TrimRight(sel, " ")
	rule := &ast.PageRule{Base: ast.NewBase(parent, sheet), Selector: sel, Style: ast.NewDeclarationBlock()}
	p.consumeDeclarationsInto(rule.Style)
	return rule
}

// consumeFontFaceRule parses "@font-face { <declarations> }".
func (p *Parser) consumeFontFaceRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.skipWhitespace()
	if _, ok := p.scan().(*token.CurlyBracketOpen); !ok {
		p.errorf(diag.InvalidBlockStart, p.current().Position())
		p.skipUnknownRule()
		return nil
	}
	rule := &ast.FontFaceRule{Base: ast.NewBase(parent, sheet), Style: ast.NewDeclarationBlock()}
	p.consumeDeclarationsInto(rule.Style)
	return rule
}

func isSemicolonOrEOF(tok token.Token) bool {
	switch tok.(type) {
	case *token.Semicolon, *token.EOF:
		return true
	}
	return false
}

func isCurlyOpenOrSemiOrEOF(tok token.Token) bool {
	switch tok.(type) {
	case *token.CurlyBracketOpen, *token.Semicolon, *token.EOF:
		return true
	}
	return false
}
