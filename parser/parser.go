// Package parser implements the rule-level CSS grammar: the top-level
// stylesheet loop, qualified-rule and at-rule dispatch, and the
// declaration-block filling algorithm. It drives a scanner.Scanner
// directly, switching lexical mode as it moves between preludes, selectors,
// and values, and publishes every recoverable grammar violation to a
// diag.Sink rather than stopping.
package parser

import (
	"strings"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/selector"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
)

// PropertyFactory builds a Property for a declaration name; the root css
// package's UnknownPropertyFactory is used when the caller supplies none.
type PropertyFactory interface {
	NewProperty(name string) ast.Property
}

// Options toggles parser behavior the grammar itself leaves as a
// compatibility choice.
type Options struct {
	// KeepInvalidSelectors keeps a qualified rule whose selector
	// constructor could not produce a result, attaching a nil Selector,
	// instead of dropping the rule and skipping its block.
	KeepInvalidSelectors bool
}

// Parser consumes a token stream from a single scanner.Scanner and builds
// the rule tree. A Parser is single-use: construct one per parse.
type Parser struct {
	sc   *scanner.Scanner
	errs *diag.Sink
	pf   PropertyFactory
	opts Options

	buf  [4]token.Token
	bufi int
	bufn int
}

// New returns a Parser reading from sc. pf may be nil, in which case every
// declaration's value is stored under the built-in unknown-property
// behavior (always accepts, never validates). opts defaults to the zero
// Options if omitted.
func New(sc *scanner.Scanner, errs *diag.Sink, pf PropertyFactory, opts ...Options) *Parser {
	p := &Parser{sc: sc, errs: errs, pf: pf}
	if len(opts) > 0 {
		p.opts = opts[0]
	}
	return p
}

func (p *Parser) errorf(code diag.Code, pos token.Pos) {
	if p.errs != nil {
		p.errs.Publish(code, pos)
	}
}

// scan returns the next token, consulting the small lookahead buffer before
// the scanner so unscan can rewind it.
func (p *Parser) scan() token.Token {
	if p.bufn > 0 {
		p.bufi = (p.bufi + 1) % len(p.buf)
		p.bufn--
		return p.buf[p.bufi]
	}
	tok := p.sc.Scan()
	p.bufi = (p.bufi + 1) % len(p.buf)
	p.buf[p.bufi] = tok
	return tok
}

// unscan pushes the last-returned token back onto the stream.
func (p *Parser) unscan() {
	p.bufi = (p.bufi + len(p.buf) - 1) % len(p.buf)
	p.bufn++
}

func (p *Parser) current() token.Token { return p.buf[p.bufi] }

func (p *Parser) skipWhitespace() {
	for {
		if _, ok := p.scan().(*token.Whitespace); !ok {
			p.unscan()
			return
		}
	}
}

func (p *Parser) setMode(m scanner.Mode) { p.sc.SetMode(m) }

// discardLookahead drops any token rewound into p.buf by unscan without
// having been re-read. The scanner-level resync methods below scan directly
// from p.sc's own cursor, which already sits after that token; leaving it
// buffered would replay it once the resync returns, desynchronizing the
// parser's view of the stream from the scanner's.
func (p *Parser) discardLookahead() { p.bufn = 0 }

// skipUnknownRule discards any unscanned lookahead and then resyncs past the
// next balanced rule body or top-level ";", per scanner.Scanner.
// SkipUnknownRule.
func (p *Parser) skipUnknownRule() {
	p.discardLookahead()
	p.sc.SkipUnknownRule()
}

// jumpToNextSemicolon discards any unscanned lookahead and then resyncs to
// the next top-level ";", per scanner.Scanner.JumpToNextSemicolon.
func (p *Parser) jumpToNextSemicolon() {
	p.discardLookahead()
	p.sc.JumpToNextSemicolon()
}

// jumpToEndOfDeclaration discards any unscanned lookahead and then resyncs
// to the end of the current declaration, per
// scanner.Scanner.JumpToEndOfDeclaration.
func (p *Parser) jumpToEndOfDeclaration() {
	p.discardLookahead()
	p.sc.JumpToEndOfDeclaration()
}

func (p *Parser) peek() token.Token {
	tok := p.scan()
	p.unscan()
	return tok
}

// ParseStylesheet consumes a top-level list of rules (spec §5.4.1), the
// entry point for a full document parse.
func (p *Parser) ParseStylesheet() *ast.Stylesheet {
	sheet := &ast.Stylesheet{}
	sheet.Rules = p.consumeRuleList(sheet, nil, true)
	return sheet
}

// ParseRules parses a list of rules in a non-top-level context (e.g. the
// body already extracted from a <style> element), applying the same
// grammar as ParseStylesheet but permitting CDO/CDC tokens to start a rule
// rather than being silently discarded.
func (p *Parser) ParseRules(sheet *ast.Stylesheet, parent ast.Rule) []ast.Rule {
	return p.consumeRuleList(sheet, parent, false)
}

// ParseRule parses exactly one qualified rule or at-rule and fails if
// anything but trailing whitespace follows it.
func (p *Parser) ParseRule(sheet *ast.Stylesheet) (ast.Rule, bool) {
	p.skipWhitespace()
	tok := p.scan()
	if _, ok := tok.(*token.EOF); ok {
		return nil, false
	}

	var rule ast.Rule
	if at, ok := tok.(*token.AtKeyword); ok {
		rule = p.consumeAtRule(sheet, nil, at.Value)
	} else {
		p.unscan()
		rule = p.consumeQualifiedRule(sheet, nil)
	}
	if rule == nil {
		return nil, false
	}

	p.skipWhitespace()
	if _, ok := p.scan().(*token.EOF); !ok {
		return nil, false
	}
	return rule, true
}

// consumeRuleList implements "consume a list of rules" (spec §5.4.1).
func (p *Parser) consumeRuleList(sheet *ast.Stylesheet, parent ast.Rule, topLevel bool) []ast.Rule {
	var rules []ast.Rule
	for {
		tok := p.scan()
		switch t := tok.(type) {
		case *token.Whitespace:
			continue
		case *token.EOF:
			return rules
		case *token.CDO, *token.CDC:
			if topLevel {
				continue
			}
			p.unscan()
			if r := p.consumeQualifiedRule(sheet, parent); r != nil {
				rules = append(rules, r)
			}
		case *token.AtKeyword:
			if r := p.consumeAtRule(sheet, parent, t.Value); r != nil {
				rules = append(rules, r)
			}
		case *token.CurlyBracketClose:
			if !topLevel {
				return rules
			}
			p.errorf(diag.InvalidToken, t.Position())
		default:
			p.unscan()
			if r := p.consumeQualifiedRule(sheet, parent); r != nil {
				rules = append(rules, r)
			}
		}
	}
}

// consumeQualifiedRule implements "consume a qualified rule" (spec §5.4.3),
// specialized to style rules: the prelude is always a selector list.
func (p *Parser) consumeQualifiedRule(sheet *ast.Stylesheet, parent ast.Rule) ast.Rule {
	p.setMode(scanner.Selector)
	ctor := selector.New()

	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.EOF:
			p.errorf(diag.InvalidBlockStart, tok.Position())
			p.setMode(scanner.Data)
			return nil
		case *token.CurlyBracketOpen:
			p.setMode(scanner.Data)
			sel := ctor.Result()
			if sel == nil {
				p.errorf(diag.InvalidSelector, tok.Position())
				if !p.opts.KeepInvalidSelectors {
					p.skipToBlockEnd()
					return nil
				}
			}
			rule := &ast.StyleRule{
				Base:     ast.NewBase(parent, sheet),
				Selector: sel,
				Style:    ast.NewDeclarationBlock(),
			}
			p.consumeDeclarationsInto(rule.Style)
			return rule
		default:
			ctor.Apply(tok)
		}
	}
}

// consumeAtRule implements "consume an at-rule" (spec §5.4.2), dispatching
// on the at-keyword name to the grammar for that at-rule.
func (p *Parser) consumeAtRule(sheet *ast.Stylesheet, parent ast.Rule, name string) ast.Rule {
	switch strings.ToLower(name) {
	case "charset":
		return p.consumeCharsetRule(sheet, parent)
	case "import":
		return p.consumeImportRule(sheet, parent)
	case "namespace":
		return p.consumeNamespaceRule(sheet, parent)
	case "media":
		return p.consumeMediaRule(sheet, parent)
	case "supports":
		return p.consumeSupportsRule(sheet, parent)
	case "document", "-moz-document":
		return p.consumeDocumentRule(sheet, parent)
	case "page":
		return p.consumePageRule(sheet, parent)
	case "font-face":
		return p.consumeFontFaceRule(sheet, parent)
	case "keyframes", "-webkit-keyframes", "-moz-keyframes", "-o-keyframes":
		return p.consumeKeyframesRule(sheet, parent, name)
	default:
		return p.consumeUnknownAtRule(sheet, parent, name)
	}
}

// consumeUnknownAtRule preserves an at-rule the parser has no grammar for.
func (p *Parser) consumeUnknownAtRule(sheet *ast.Stylesheet, parent ast.Rule, name string) ast.Rule {
	p.errorf(diag.UnknownAtRule, p.current().Position())
	p.setMode(scanner.Data)

	rule := &ast.UnknownAtRule{Base: ast.NewBase(parent, sheet), Name: name}
	var preludeToks []token.Token
	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			rule.Prelude = componentsFromTokens(preludeToks)
			return rule
		case *token.CurlyBracketOpen:
			rule.Prelude = componentsFromTokens(preludeToks)
			rule.HasBlock = true
			rule.Block = p.consumeBlockComponents()
			return rule
		default:
			preludeToks = append(preludeToks, tok)
		}
	}
}

func componentsFromTokens(toks []token.Token) []value.Component {
	b := value.New()
	for _, t := range toks {
		b.Apply(t)
	}
	if v := b.Result(); v != nil {
		return v.Components
	}
	return nil
}

// consumeBlockComponents reads a "{...}" body as a raw component tree,
// already having consumed the opening brace.
func (p *Parser) consumeBlockComponents() []value.Component {
	depth := 0
	var toks []token.Token
	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.EOF:
			return componentsFromTokens(toks)
		case *token.CurlyBracketOpen:
			depth++
		case *token.CurlyBracketClose:
			if depth == 0 {
				return componentsFromTokens(toks)
			}
			depth--
		}
		toks = append(toks, tok)
	}
}

// consumeDeclarationsInto implements "consume a list of declarations" (spec
// §5.4.4), restricted to plain declarations (no nested rules), which is
// every block the style/page/font-face rules own. The opening "{" has
// already been consumed by the caller.
func (p *Parser) consumeDeclarationsInto(block *ast.DeclarationBlock) {
	for {
		tok := p.scan()
		switch t := tok.(type) {
		case *token.Whitespace, *token.Semicolon:
			continue
		case *token.EOF:
			return
		case *token.CurlyBracketClose:
			return
		case *token.Ident:
			p.unscan()
			p.consumeDeclaration(block)
		default:
			p.errorf(diag.IdentExpected, t.Position())
			p.jumpToEndOfDeclaration()
		}
	}
}

// consumeDeclaration implements "consume a declaration" (spec §5.4.5). The
// current position is just before the leading ident.
func (p *Parser) consumeDeclaration(block *ast.DeclarationBlock) {
	ident := p.scan().(*token.Ident)
	name := ident.Value

	p.skipWhitespace()
	if _, ok := p.scan().(*token.Colon); !ok {
		p.errorf(diag.ColonMissing, p.current().Position())
		p.jumpToEndOfDeclaration()
		return
	}
	p.skipWhitespace()

	p.setMode(scanner.Value)
	b := value.New()
	for {
		tok := p.scan()
		switch tok.(type) {
		case *token.Semicolon:
			goto done
		case *token.CurlyBracketClose:
			p.unscan()
			goto done
		case *token.EOF:
			goto done
		default:
			b.Apply(tok)
		}
	}
done:
	p.setMode(scanner.Data)

	val := b.Result()
	if val == nil {
		p.errorf(diag.ValueMissing, ident.Position())
		return
	}

	prop := p.newProperty(name)
	if !prop.TrySetValue(val) {
		p.errorf(diag.UnknownDeclarationName, ident.Position())
		return
	}
	block.Set(name, prop)
}

// skipToBlockEnd discards tokens up to the "}" matching one already
// consumed by the caller, tracking nested braces; unlike
// scanner.SkipUnknownRule it does not stop early at a top-level ";", since
// the caller is already inside the block rather than searching for one.
func (p *Parser) skipToBlockEnd() {
	depth := 0
	for {
		switch p.scan().(type) {
		case *token.EOF:
			return
		case *token.CurlyBracketOpen:
			depth++
		case *token.CurlyBracketClose:
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

func (p *Parser) newProperty(name string) ast.Property {
	if p.pf != nil {
		return p.pf.NewProperty(name)
	}
	return newUnknownProperty(name)
}
