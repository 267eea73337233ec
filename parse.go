package css

import (
	"github.com/csscore/css/ast"
	"github.com/csscore/css/parser"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/selector"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
)

// ParseStylesheet synchronously parses a full stylesheet from src.
func ParseStylesheet(src source.TextSource, cfg Config) *ast.Stylesheet {
	cfg.applyEncoding(src)
	errs := cfg.newSink()
	sc := scanner.New(src, errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseStylesheet()
}

// ParseSelector parses a single selector list from text, returning nil if
// it is empty or malformed. Trailing tokens after a well-formed selector
// (other than whitespace) also yield nil, since a selector list has no
// terminator of its own to stop at.
func ParseSelector(text string) *selector.Selector {
	sc := scanner.New(source.NewString(text), nil)
	sc.SetMode(scanner.Selector)

	ctor := selector.New()
	for {
		tok := sc.Scan()
		if _, ok := tok.(*token.EOF); ok {
			break
		}
		ctor.Apply(tok)
	}
	return ctor.Result()
}

// ParseValue parses a single declaration value (no leading "name:", no
// trailing ";"), returning nil if it is empty or unbalanced.
func ParseValue(text string) *value.Value {
	sc := scanner.New(source.NewString(text), nil)
	sc.SetMode(scanner.Value)

	b := value.New()
	for {
		tok := sc.Scan()
		if _, ok := tok.(*token.EOF); ok {
			break
		}
		b.Apply(tok)
	}
	return b.Result()
}

// ParseRule parses a single qualified rule or at-rule, returning ok=false
// if anything but trailing whitespace follows it.
func ParseRule(text string, cfg Config) (ast.Rule, bool) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseRule(&ast.Stylesheet{})
}

// ParseDeclaration parses a single "name: value" with no terminator.
func ParseDeclaration(text string, cfg Config) (Property, bool) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseDeclaration()
}

// ParseDeclarations parses a bare, semicolon-separated list of
// declarations with no enclosing braces.
func ParseDeclarations(text string, cfg Config) *ast.DeclarationBlock {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseDeclarations()
}

// ParseMediaList parses a comma-separated media query list. Unlike the
// other single-construct entry points, it fails with a *SyntaxError rather
// than returning a partial result when the list is malformed or tokens
// remain after it.
func ParseMediaList(text string, cfg Config) ([]ast.CssMedium, error) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	list, ok := p.ParseMediaList()
	if !ok {
		return nil, &SyntaxError{Errors: errs.Errors}
	}
	return list, nil
}

// ParseMedium parses a single medium (no comma-separated list), failing
// with a *SyntaxError on malformed input or leftover tokens.
func ParseMedium(text string, cfg Config) (ast.CssMedium, error) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	m, ok := p.ParseMedium()
	if !ok {
		return m, &SyntaxError{Errors: errs.Errors}
	}
	return m, nil
}

// ParseCondition parses a single @supports condition, returning nil if it
// is malformed or tokens remain after it.
func ParseCondition(text string, cfg Config) ast.Condition {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	cond, ok := p.ParseCondition()
	if !ok {
		return nil
	}
	return cond
}

// ParseDocumentRules parses an @document prelude's url-matching function
// list on its own, returning nil if it is malformed.
func ParseDocumentRules(text string, cfg Config) []ast.DocumentFunction {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	funcs, ok := p.ParseDocumentRules()
	if !ok {
		return nil
	}
	return funcs
}

// ParseKeyframeSelector parses a comma-separated keyframe selector list on
// its own, e.g. "from" or "50%, 75%".
func ParseKeyframeSelector(text string, cfg Config) ([]ast.KeyframeSelector, bool) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseKeyframeSelector()
}

// ParseKeyframeRule parses one "<selectors> { <declarations> }" on its own.
func ParseKeyframeRule(text string, cfg Config) (*ast.KeyframeRule, bool) {
	errs := cfg.newSink()
	sc := scanner.New(source.NewString(text), errs)
	p := parser.New(sc, errs, cfg.propertyFactory(), cfg.parserOptions())
	return p.ParseKeyframeRule(&ast.Stylesheet{})
}
