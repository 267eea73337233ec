package css

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/selector"
	"github.com/csscore/css/token"
	"github.com/csscore/css/value"
)

// Printer serializes a parsed Stylesheet, Rule, or any of its component
// trees back into CSS text. The output is canonical, not a byte-for-byte
// echo of the source: whitespace is normalized to a single space between
// significant tokens and string literals are re-quoted (url() values are
// written back unquoted), matching the
// "round-trip up to insignificant whitespace" property the parser is held
// to.
type Printer struct{}

// Sprint renders n using the default Printer configuration.
func Sprint(n ast.Node) string {
	var p Printer
	var buf bytes.Buffer
	_ = p.Print(&buf, n)
	return buf.String()
}

func (p *Printer) Print(w io.Writer, n ast.Node) (err error) {
	switch n := n.(type) {
	case *ast.Stylesheet:
		if n == nil {
			return nil
		}
		for i, r := range n.Rules {
			if i > 0 {
				_, _ = w.Write([]byte{' '})
			}
			if err = p.printRule(w, r); err != nil {
				return err
			}
		}
		return nil
	case ast.Rule:
		return p.printRule(w, n)
	default:
		return fmt.Errorf("css: Printer.Print: unsupported node %T", n)
	}
}

func (p *Printer) printRule(w io.Writer, r ast.Rule) error {
	switch r := r.(type) {
	case nil:
		return nil
	case *ast.StyleRule:
		if r.Selector != nil {
			if err := p.printSelector(w, r.Selector); err != nil {
				return err
			}
		}
		_, _ = w.Write([]byte{' '})
		return p.printDeclarationBlock(w, r.Style)

	case *ast.CharsetRule:
		_, err := fmt.Fprintf(w, "@charset %q;", r.Encoding)
		return err

	case *ast.ImportRule:
		if _, err := fmt.Fprintf(w, "@import %q", r.Href); err != nil {
			return err
		}
		if len(r.Media) > 0 {
			_, _ = w.Write([]byte{' '})
			if err := p.printMediaList(w, r.Media); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte{';'})
		return err

	case *ast.NamespaceRule:
		if r.Prefix != "" {
			if _, err := fmt.Fprintf(w, "@namespace %s %q;", r.Prefix, r.URI); err != nil {
				return err
			}
			return nil
		}
		_, err := fmt.Fprintf(w, "@namespace %q;", r.URI)
		return err

	case *ast.MediaRule:
		if _, err := w.Write([]byte("@media ")); err != nil {
			return err
		}
		if err := p.printMediaList(w, r.Media); err != nil {
			return err
		}
		_, _ = w.Write([]byte(" { "))
		for i, sub := range r.Rules {
			if i > 0 {
				_, _ = w.Write([]byte{' '})
			}
			if err := p.printRule(w, sub); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte(" }"))
		return err

	case *ast.SupportsRule:
		if _, err := w.Write([]byte("@supports ")); err != nil {
			return err
		}
		if err := p.printCondition(w, r.Condition); err != nil {
			return err
		}
		_, _ = w.Write([]byte(" { "))
		for i, sub := range r.Rules {
			if i > 0 {
				_, _ = w.Write([]byte{' '})
			}
			if err := p.printRule(w, sub); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte(" }"))
		return err

	case *ast.DocumentRule:
		if _, err := w.Write([]byte("@document ")); err != nil {
			return err
		}
		for i, fn := range r.Functions {
			if i > 0 {
				_, _ = w.Write([]byte(", "))
			}
			if _, err := fmt.Fprintf(w, "%s(%q)", fn.Name, fn.Arg); err != nil {
				return err
			}
		}
		_, _ = w.Write([]byte(" { "))
		for i, sub := range r.Rules {
			if i > 0 {
				_, _ = w.Write([]byte{' '})
			}
			if err := p.printRule(w, sub); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte(" }"))
		return err

	case *ast.PageRule:
		if _, err := fmt.Fprintf(w, "@page %s ", r.Selector); err != nil {
			return err
		}
		return p.printDeclarationBlock(w, r.Style)

	case *ast.FontFaceRule:
		if _, err := w.Write([]byte("@font-face ")); err != nil {
			return err
		}
		return p.printDeclarationBlock(w, r.Style)

	case *ast.KeyframesRule:
		if _, err := fmt.Fprintf(w, "@keyframes %s { ", r.Name); err != nil {
			return err
		}
		for i, kf := range r.Keyframes {
			if i > 0 {
				_, _ = w.Write([]byte{' '})
			}
			if err := p.printKeyframeRule(w, kf); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte(" }"))
		return err

	case *ast.UnknownAtRule:
		if _, err := fmt.Fprintf(w, "@%s", r.Name); err != nil {
			return err
		}
		if len(r.Prelude) > 0 {
			_, _ = w.Write([]byte{' '})
			if err := p.printComponents(w, r.Prelude); err != nil {
				return err
			}
		}
		if !r.HasBlock {
			_, err := w.Write([]byte{';'})
			return err
		}
		_, _ = w.Write([]byte(" { "))
		if err := p.printComponents(w, r.Block); err != nil {
			return err
		}
		_, err := w.Write([]byte(" }"))
		return err

	default:
		return fmt.Errorf("css: Printer.printRule: unsupported rule %T", r)
	}
}

func (p *Printer) printKeyframeRule(w io.Writer, kf *ast.KeyframeRule) error {
	for i, sel := range kf.Selectors {
		if i > 0 {
			_, _ = w.Write([]byte(", "))
		}
		if _, err := fmt.Fprintf(w, "%s%%", strconv.FormatFloat(sel.Percentage, 'g', -1, 64)); err != nil {
			return err
		}
	}
	_, _ = w.Write([]byte{' '})
	return p.printDeclarationBlock(w, kf.Style)
}

func (p *Printer) printDeclarationBlock(w io.Writer, d *ast.DeclarationBlock) error {
	if _, err := w.Write([]byte{'{'}); err != nil {
		return err
	}
	for i := 0; i < d.Len(); i++ {
		_, _ = w.Write([]byte(" "))
		name, prop := d.At(i)
		if _, err := fmt.Fprintf(w, "%s: ", name); err != nil {
			return err
		}
		if err := p.printValue(w, prop.Value()); err != nil {
			return err
		}
		if prop.Important() {
			_, _ = w.Write([]byte(" !important"))
		}
		_, _ = w.Write([]byte{';'})
	}
	_, err := w.Write([]byte{' ', '}'})
	return err
}

func (p *Printer) printMediaList(w io.Writer, media []ast.CssMedium) error {
	for i, m := range media {
		if i > 0 {
			_, _ = w.Write([]byte(", "))
		}
		if err := p.printMedium(w, m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printMedium(w io.Writer, m ast.CssMedium) error {
	if m.Modifier != "" {
		if _, err := fmt.Fprintf(w, "%s ", m.Modifier); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte(m.Type)); err != nil {
		return err
	}
	for _, f := range m.Features {
		_, _ = w.Write([]byte(" and "))
		if err := p.printMediaFeature(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printMediaFeature(w io.Writer, f ast.MediaFeature) error {
	if _, err := w.Write([]byte{'('}); err != nil {
		return err
	}
	if _, err := w.Write([]byte(f.Name)); err != nil {
		return err
	}
	if f.Value != nil {
		sep := " " + f.Op + " "
		if f.Op == "" {
			sep = ": "
		}
		if _, err := w.Write([]byte(sep)); err != nil {
			return err
		}
		if err := p.printValue(w, f.Value); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{')'})
	return err
}

func (p *Printer) printCondition(w io.Writer, c ast.Condition) error {
	switch c := c.(type) {
	case ast.DeclarationCondition:
		if _, err := fmt.Fprintf(w, "(%s: ", c.Name); err != nil {
			return err
		}
		if err := p.printValue(w, c.Value); err != nil {
			return err
		}
		_, err := w.Write([]byte{')'})
		return err
	case ast.SelectorCondition:
		if _, err := w.Write([]byte("selector(")); err != nil {
			return err
		}
		if err := p.printSelector(w, c.Selector); err != nil {
			return err
		}
		_, err := w.Write([]byte{')'})
		return err
	case ast.NotCondition:
		if _, err := w.Write([]byte("not ")); err != nil {
			return err
		}
		return p.printCondition(w, c.Cond)
	case ast.AndCondition:
		return p.printConditionList(w, c.Conds, " and ")
	case ast.OrCondition:
		return p.printConditionList(w, c.Conds, " or ")
	case ast.GroupCondition:
		if _, err := w.Write([]byte{'('}); err != nil {
			return err
		}
		if err := p.printCondition(w, c.Cond); err != nil {
			return err
		}
		_, err := w.Write([]byte{')'})
		return err
	default:
		return fmt.Errorf("css: Printer.printCondition: unsupported condition %T", c)
	}
}

func (p *Printer) printConditionList(w io.Writer, conds []ast.Condition, sep string) error {
	for i, c := range conds {
		if i > 0 {
			if _, err := w.Write([]byte(sep)); err != nil {
				return err
			}
		}
		if err := p.printCondition(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printSelector(w io.Writer, sel *selector.Selector) error {
	for i, complex := range sel.Complex {
		if i > 0 {
			if _, err := w.Write([]byte(", ")); err != nil {
				return err
			}
		}
		if err := p.printComplexSelector(w, complex); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printComplexSelector(w io.Writer, cs selector.ComplexSelector) error {
	for i, compound := range cs.Compounds {
		if i > 0 {
			sep := " "
			switch compound.Combinator {
			case selector.CombinatorChild:
				sep = " > "
			case selector.CombinatorNextSibling:
				sep = " + "
			case selector.CombinatorSubsequentSibling:
				sep = " ~ "
			case selector.CombinatorColumn:
				sep = " || "
			}
			if _, err := w.Write([]byte(sep)); err != nil {
				return err
			}
		}
		if err := p.printCompoundSelector(w, compound); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printCompoundSelector(w io.Writer, cp selector.CompoundSelector) error {
	if cp.Type != nil {
		if cp.Type.Namespace != "" {
			if _, err := fmt.Fprintf(w, "%s|", cp.Type.Namespace); err != nil {
				return err
			}
		}
		if _, err := w.Write([]byte(cp.Type.Name)); err != nil {
			return err
		}
	}
	for _, sub := range cp.Subclasses {
		if err := p.printSimpleSelector(w, sub); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printSimpleSelector(w io.Writer, s selector.SimpleSelector) error {
	switch s := s.(type) {
	case selector.IDSelector:
		_, err := fmt.Fprintf(w, "#%s", s.Value)
		return err
	case selector.ClassSelector:
		_, err := fmt.Fprintf(w, ".%s", s.Value)
		return err
	case selector.AttributeSelector:
		if s.Matcher == "" {
			_, err := fmt.Fprintf(w, "[%s]", s.Name)
			return err
		}
		suffix := ""
		if s.CaseInsensitive {
			suffix = " i"
		}
		_, err := fmt.Fprintf(w, "[%s%s%q%s]", s.Name, s.Matcher, s.Value, suffix)
		return err
	case selector.PseudoClass:
		_, err := fmt.Fprintf(w, ":%s", s.Name)
		return err
	case selector.PseudoElement:
		_, err := fmt.Fprintf(w, "::%s", s.Name)
		return err
	case selector.FunctionalPseudo:
		if _, err := fmt.Fprintf(w, ":%s(", s.Name); err != nil {
			return err
		}
		if s.Nested != nil {
			for i, cs := range s.Nested {
				if i > 0 {
					_, _ = w.Write([]byte(", "))
				}
				if err := p.printComplexSelector(w, cs); err != nil {
					return err
				}
			}
		} else {
			for _, tok := range s.Args {
				if err := p.printToken(w, tok); err != nil {
					return err
				}
			}
		}
		_, err := w.Write([]byte{')'})
		return err
	default:
		return fmt.Errorf("css: Printer.printSimpleSelector: unsupported selector %T", s)
	}
}

func (p *Printer) printValue(w io.Writer, v *value.Value) error {
	if v == nil {
		return nil
	}
	return p.printComponents(w, v.Components)
}

func (p *Printer) printComponents(w io.Writer, comps []value.Component) error {
	for _, c := range comps {
		if err := p.printComponent(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printComponent(w io.Writer, c value.Component) error {
	switch c := c.(type) {
	case value.Leaf:
		return p.printToken(w, c.Token)
	case value.Function:
		if _, err := fmt.Fprintf(w, "%s(", c.Name); err != nil {
			return err
		}
		if err := p.printComponents(w, c.Args); err != nil {
			return err
		}
		_, err := w.Write([]byte{')'})
		return err
	case value.Block:
		openByte, closeByte := blockDelims(c.Open)
		if _, err := w.Write([]byte{openByte}); err != nil {
			return err
		}
		if err := p.printComponents(w, c.Values); err != nil {
			return err
		}
		_, err := w.Write([]byte{closeByte})
		return err
	default:
		return fmt.Errorf("css: Printer.printComponent: unsupported component %T", c)
	}
}

func blockDelims(open rune) (byte, byte) {
	switch open {
	case '[':
		return '[', ']'
	case '{':
		return '{', '}'
	default:
		return '(', ')'
	}
}

func (p *Printer) printToken(w io.Writer, tok token.Token) error {
	var err error
	switch t := tok.(type) {
	case *token.Whitespace:
		_, err = w.Write([]byte{' '})
	case *token.Ident:
		_, err = w.Write([]byte(t.Value))
	case *token.Function:
		_, err = fmt.Fprintf(w, "%s(", t.Value)
	case *token.AtKeyword:
		_, err = fmt.Fprintf(w, "@%s", t.Value)
	case *token.Hash:
		_, err = fmt.Fprintf(w, "#%s", t.Value)
	case *token.String:
		_, err = fmt.Fprintf(w, "%q", t.Value)
	case *token.BadString:
		_, err = w.Write([]byte(`""`))
	case *token.URL:
		_, err = fmt.Fprintf(w, "url(%s)", t.Value)
	case *token.BadURL:
		_, err = w.Write([]byte("url()"))
	case *token.Number:
		_, err = w.Write([]byte(t.Value))
	case *token.Integer:
		_, err = w.Write([]byte(t.Value))
	case *token.Percentage:
		_, err = w.Write([]byte(t.Value))
	case *token.Dimension:
		_, err = w.Write([]byte(t.Value))
	case *token.Delim:
		_, err = w.Write([]byte(t.Value))
	case *token.UnicodeRange:
		if t.Start == t.End {
			_, err = fmt.Fprintf(w, "U+%06X", t.Start)
		} else {
			_, err = fmt.Fprintf(w, "U+%06X-%06X", t.Start, t.End)
		}
	case *token.IncludeMatch:
		_, err = w.Write([]byte("~="))
	case *token.DashMatch:
		_, err = w.Write([]byte("|="))
	case *token.PrefixMatch:
		_, err = w.Write([]byte("^="))
	case *token.SuffixMatch:
		_, err = w.Write([]byte("$="))
	case *token.SubstringMatch:
		_, err = w.Write([]byte("*="))
	case *token.NotMatch:
		_, err = w.Write([]byte("!="))
	case *token.Column:
		_, err = w.Write([]byte("||"))
	case *token.CDO:
		_, err = w.Write([]byte("<!--"))
	case *token.CDC:
		_, err = w.Write([]byte("-->"))
	case *token.Colon:
		_, err = w.Write([]byte{':'})
	case *token.Semicolon:
		_, err = w.Write([]byte{';'})
	case *token.Comma:
		_, err = w.Write([]byte{','})
	case *token.SquareBracketOpen:
		_, err = w.Write([]byte{'['})
	case *token.SquareBracketClose:
		_, err = w.Write([]byte{']'})
	case *token.RoundBracketOpen:
		_, err = w.Write([]byte{'('})
	case *token.RoundBracketClose:
		_, err = w.Write([]byte{')'})
	case *token.CurlyBracketOpen:
		_, err = w.Write([]byte{'{'})
	case *token.CurlyBracketClose:
		_, err = w.Write([]byte{'}'})
	case *token.GreaterThan:
		_, err = w.Write([]byte{'>'})
	case *token.GreaterThanOrEqual:
		_, err = w.Write([]byte(">="))
	case *token.LessThan:
		_, err = w.Write([]byte{'<'})
	case *token.LessThanOrEqual:
		_, err = w.Write([]byte("<="))
	case *token.EOF:
		// nothing to print
	default:
		err = fmt.Errorf("css: Printer.printToken: unsupported token %T", t)
	}
	return err
}
