// Package scanner implements the mode-switching CSS tokenizer (spec §4.1).
// Its lexical rules are identical across modes for the structural and
// literal tokens, for whitespace (always emitted as a token), and for the
// attribute matchers "~=", "|=", "^=", "$=", "*=" and the column "||". Only
// "!=" (selector mode), the comparator tokens "<", "<=", ">", ">=" (value
// mode; elsewhere "<" and ">" are delimiters) and "<!--" (any mode but
// value) depend on which mode is active when Scan is called. The scanner
// never refuses to advance: every
// malformed construct recovers per the W3C rules and is reported on the
// diag.Sink instead of aborting the scan.
package scanner

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/csscore/css/diag"
	"github.com/csscore/css/source"
	"github.com/csscore/css/token"
)

// eof mirrors source.TextSource's end-of-input sentinel.
const eof rune = -1

// Mode selects which lexical grammar Scan applies to the next token. The
// rule parser sets this before calling Scan; changing it between tokens is
// legal and does not re-lex any already-buffered bytes (DESIGN NOTE 1).
type Mode int

const (
	Data Mode = iota
	Selector
	Value
)

type bufEntry struct {
	ch  rune
	pos token.Pos
}

// Scanner produces a lazy, finite token stream terminated by EOF.
type Scanner struct {
	src  source.TextSource
	errs *diag.Sink
	mode Mode

	buf  [8]bufEntry
	bufi int
	bufn int

	pending token.Token // single-token pushback used by JumpToEndOfDeclaration
}

// New returns a Scanner reading from src. errs may be nil, in which case
// lexical errors are silently discarded rather than published.
func New(src source.TextSource, errs *diag.Sink) *Scanner {
	return &Scanner{src: src, errs: errs}
}

// SetMode changes the active lexical grammar for subsequent Scan calls.
func (s *Scanner) SetMode(m Mode) { s.mode = m }

// Mode returns the active lexical grammar.
func (s *Scanner) Mode() Mode { return s.mode }

func (s *Scanner) errorf(code diag.Code, pos token.Pos) {
	if s.errs != nil {
		s.errs.Publish(code, pos)
	}
}

func base(pos token.Pos) token.Base { return token.Base{Pos: pos} }

// Scan returns the next token from the stream.
func (s *Scanner) Scan() token.Token {
	if s.pending != nil {
		tok := s.pending
		s.pending = nil
		return tok
	}

	ch := s.read()
	pos := s.Pos()

	if ch == eof {
		return token.NewEOF(pos)
	}
	if isWhitespace(ch) {
		return &token.Whitespace{Base: base(pos), Value: s.scanWhitespace(ch)}
	}
	return s.scanOther(ch, pos)
}

func (s *Scanner) scanOther(ch rune, pos token.Pos) token.Token {
	switch {
	case ch == '"' || ch == '\'':
		return s.scanString(ch, pos)
	case ch == '#':
		return s.scanHash(pos)
	case ch == '$':
		if s.read() == '=' {
			return &token.SuffixMatch{Base: base(pos)}
		}
		s.unread(1)
		return delim(pos, "$")
	case ch == '*':
		if s.read() == '=' {
			return &token.SubstringMatch{Base: base(pos)}
		}
		s.unread(1)
		return delim(pos, "*")
	case ch == '^':
		if s.read() == '=' {
			return &token.PrefixMatch{Base: base(pos)}
		}
		s.unread(1)
		return delim(pos, "^")
	case ch == '~':
		if s.read() == '=' {
			return &token.IncludeMatch{Base: base(pos)}
		}
		s.unread(1)
		return delim(pos, "~")
	case ch == '!':
		if s.mode == Selector {
			if s.read() == '=' {
				return &token.NotMatch{Base: base(pos)}
			}
			s.unread(1)
		}
		return delim(pos, "!")
	case ch == ',':
		return &token.Comma{Base: base(pos)}
	case ch == '-':
		ch1, ch2 := s.read(), s.read()
		s.unread(2)
		switch {
		case isDigit(ch1) || ch1 == '.':
			s.unread(1)
			return s.scanNumeric(pos)
		case s.peekIdent():
			return s.scanIdent(pos)
		case ch1 == '-' && ch2 == '>':
			s.read()
			s.read()
			return &token.CDC{Base: base(pos)}
		default:
			return delim(pos, "-")
		}
	case ch == '/':
		if s.read() == '*' {
			s.scanComment(pos)
			return s.Scan()
		}
		s.unread(1)
		return delim(pos, "/")
	case ch == ':':
		return &token.Colon{Base: base(pos)}
	case ch == ';':
		return &token.Semicolon{Base: base(pos)}
	case ch == '<':
		if s.mode != Value {
			if ch0 := s.read(); ch0 == '!' {
				if ch1 := s.read(); ch1 == '-' {
					if ch2 := s.read(); ch2 == '-' {
						return &token.CDO{Base: base(pos)}
					}
					s.unread(1)
				}
				s.unread(1)
			}
			s.unread(1)
			return delim(pos, "<")
		}
		if s.read() == '=' {
			return &token.LessThanOrEqual{Base: base(pos)}
		}
		s.unread(1)
		return &token.LessThan{Base: base(pos)}
	case ch == '>':
		if s.mode != Value {
			return delim(pos, ">")
		}
		if s.read() == '=' {
			return &token.GreaterThanOrEqual{Base: base(pos)}
		}
		s.unread(1)
		return &token.GreaterThan{Base: base(pos)}
	case ch == '@':
		s.read()
		if s.peekIdent() {
			return &token.AtKeyword{Base: base(pos), Value: s.scanName()}
		}
		s.unread(1)
		return delim(pos, "@")
	case ch == '(':
		return &token.RoundBracketOpen{Base: base(pos)}
	case ch == ')':
		return &token.RoundBracketClose{Base: base(pos)}
	case ch == '[':
		return &token.SquareBracketOpen{Base: base(pos)}
	case ch == ']':
		return &token.SquareBracketClose{Base: base(pos)}
	case ch == '{':
		return &token.CurlyBracketOpen{Base: base(pos)}
	case ch == '}':
		return &token.CurlyBracketClose{Base: base(pos)}
	case ch == '\\':
		if s.peekEscape() {
			return s.scanIdent(pos)
		}
		s.errorf(diag.InvalidEscape, pos)
		return delim(pos, "\\")
	case ch == '+' || ch == '.':
		ch1, ch2 := s.read(), s.read()
		s.unread(2)
		if isDigit(ch1) || (ch == '+' && ch1 == '.' && isDigit(ch2)) {
			s.unread(1)
			return s.scanNumeric(pos)
		}
		return delim(pos, string(ch))
	case isDigit(ch):
		s.unread(1)
		return s.scanNumeric(pos)
	case ch == 'u' || ch == 'U':
		ch1, ch2 := s.read(), s.read()
		if ch1 == '+' && (isHexDigit(ch2) || ch2 == '?') {
			s.unread(1)
			return s.scanUnicodeRange(pos)
		}
		s.unread(2)
		return s.scanIdent(pos)
	case isNameStart(ch):
		return s.scanIdent(pos)
	case ch == '|':
		if ch1 := s.read(); ch1 == '=' {
			return &token.DashMatch{Base: base(pos)}
		} else if ch1 == '|' {
			return &token.Column{Base: base(pos)}
		}
		s.unread(1)
		return delim(pos, "|")
	default:
		return delim(pos, string(ch))
	}
}

func delim(pos token.Pos, v string) *token.Delim {
	return &token.Delim{Base: base(pos), Value: v}
}

func (s *Scanner) scanWhitespace(first rune) string {
	var buf bytes.Buffer
	buf.WriteRune(first)
	for {
		ch := s.read()
		if ch == eof || !isWhitespace(ch) {
			s.unread(1)
			break
		}
		buf.WriteRune(ch)
	}
	return buf.String()
}

func (s *Scanner) scanComment(pos token.Pos) {
	for {
		ch0 := s.read()
		if ch0 == eof {
			s.errorf(diag.UnterminatedComment, pos)
			return
		} else if ch0 == '*' {
			if ch1 := s.read(); ch1 == '/' {
				return
			}
			s.unread(1)
		}
	}
}

func (s *Scanner) scanString(ending rune, pos token.Pos) token.Token {
	var buf bytes.Buffer
	for {
		ch := s.read()
		switch {
		case ch == eof || ch == ending:
			return &token.String{Base: base(pos), Value: buf.String(), Ending: ending}
		case ch == '\n':
			s.unread(1)
			s.errorf(diag.UnterminatedString, pos)
			return &token.BadString{Base: base(pos)}
		case ch == '\\':
			if s.peekEscape() {
				buf.WriteRune(s.scanEscape())
				continue
			}
			if next := s.read(); next == eof {
				continue
			} else if next == '\n' {
				buf.WriteRune(next)
			}
		default:
			buf.WriteRune(ch)
		}
	}
}

func (s *Scanner) scanNumeric(pos token.Pos) token.Token {
	num, typ, repr := s.scanNumber()

	if s.read(); s.peekIdent() {
		unit := s.scanName()
		return &token.Dimension{Base: base(pos), Value: repr + unit, Number: num, Unit: unit}
	}
	s.unread(1)

	if ch := s.read(); ch == '%' {
		return &token.Percentage{Base: base(pos), Value: repr + "%", Number: num}
	}
	s.unread(1)

	if typ == "integer" {
		return &token.Integer{Base: base(pos), Value: repr, Number: num}
	}
	return &token.Number{Base: base(pos), Value: repr, Number: num}
}

func (s *Scanner) scanNumber() (num float64, typ, repr string) {
	var buf bytes.Buffer
	typ = "integer"

	if ch := s.read(); ch == '+' || ch == '-' {
		buf.WriteRune(ch)
	} else {
		s.unread(1)
	}

	buf.WriteString(s.scanDigits())

	if ch0 := s.read(); ch0 == '.' {
		if ch1 := s.read(); isDigit(ch1) {
			typ = "number"
			buf.WriteRune(ch0)
			buf.WriteRune(ch1)
			buf.WriteString(s.scanDigits())
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	if ch0 := s.read(); ch0 == 'e' || ch0 == 'E' {
		if ch1 := s.read(); ch1 == '+' || ch1 == '-' {
			if ch2 := s.read(); isDigit(ch2) {
				typ = "number"
				buf.WriteRune(ch0)
				buf.WriteRune(ch1)
				buf.WriteRune(ch2)
			} else {
				s.unread(3)
			}
		} else if isDigit(ch1) {
			typ = "number"
			buf.WriteRune(ch0)
			buf.WriteRune(ch1)
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	num, _ = strconv.ParseFloat(buf.String(), 64)
	repr = buf.String()
	return
}

func (s *Scanner) scanDigits() string {
	var buf bytes.Buffer
	for {
		if ch := s.read(); isDigit(ch) {
			buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}
	return buf.String()
}

func (s *Scanner) scanHash(pos token.Pos) token.Token {
	if ch := s.read(); isName(ch) || s.peekEscape() {
		typ := "unrestricted"
		if s.peekIdent() {
			typ = "id"
		}
		return &token.Hash{Base: base(pos), Value: s.scanName(), Type: typ}
	}
	s.unread(1)
	return delim(pos, "#")
}

func (s *Scanner) scanName() string {
	var buf bytes.Buffer
	s.unread(1)
	for {
		if ch := s.read(); isName(ch) {
			buf.WriteRune(ch)
		} else if s.peekEscape() {
			buf.WriteRune(s.scanEscape())
		} else {
			s.unread(1)
			return buf.String()
		}
	}
}

func (s *Scanner) scanIdent(pos token.Pos) token.Token {
	v := s.scanName()

	if strings.EqualFold(v, "url") {
		if ch := s.read(); ch == '(' {
			return s.scanURL(pos)
		}
		s.unread(1)
	} else if ch := s.read(); ch == '(' {
		return &token.Function{Base: base(pos), Value: v}
	} else {
		s.unread(1)
	}

	return &token.Ident{Base: base(pos), Value: v}
}

func (s *Scanner) scanURL(pos token.Pos) token.Token {
	if ch := s.read(); isWhitespace(ch) {
		s.scanWhitespace(ch)
	} else {
		s.unread(1)
	}

	if ch := s.read(); ch == eof {
		return &token.URL{Base: base(pos)}
	} else if ch == '"' || ch == '\'' {
		tok := s.scanString(ch, pos)
		var value string
		switch t := tok.(type) {
		case *token.String:
			value = t.Value
		case *token.BadString:
			s.scanBadURL()
			return &token.BadURL{Base: base(pos)}
		}

		if ch := s.read(); isWhitespace(ch) {
			s.scanWhitespace(ch)
		} else {
			s.unread(1)
		}

		if ch := s.read(); ch != ')' && ch != eof {
			s.scanBadURL()
			return &token.BadURL{Base: base(pos)}
		}
		return &token.URL{Base: base(pos), Value: value}
	}
	s.unread(1)

	var buf bytes.Buffer
	for {
		ch := s.read()
		switch {
		case ch == ')' || ch == eof:
			return &token.URL{Base: base(pos), Value: buf.String()}
		case isWhitespace(ch):
			s.scanWhitespace(ch)
			if ch0 := s.read(); ch0 == ')' || ch0 == eof {
				return &token.URL{Base: base(pos), Value: buf.String()}
			}
			s.scanBadURL()
			return &token.BadURL{Base: base(pos)}
		case ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch):
			s.scanBadURL()
			return &token.BadURL{Base: base(pos)}
		case ch == '\\':
			if s.peekEscape() {
				buf.WriteRune(s.scanEscape())
			} else {
				s.errorf(diag.InvalidEscape, s.Pos())
				s.scanBadURL()
				return &token.BadURL{Base: base(pos)}
			}
		default:
			buf.WriteRune(ch)
		}
	}
}

func (s *Scanner) scanBadURL() {
	for {
		ch := s.read()
		if ch == ')' || ch == eof {
			return
		} else if s.peekEscape() {
			s.scanEscape()
		}
	}
}

func (s *Scanner) scanUnicodeRange(pos token.Pos) token.Token {
	var buf bytes.Buffer
	pos.Char--

	for i := 0; i < 6; i++ {
		if ch := s.read(); isHexDigit(ch) {
			buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}

	n := buf.Len()
	for i := 0; i < 6-n; i++ {
		if ch := s.read(); ch == '?' {
			buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}

	if buf.Len() > n {
		start64, _ := strconv.ParseInt(strings.ReplaceAll(buf.String(), "?", "0"), 16, 0)
		end64, _ := strconv.ParseInt(strings.ReplaceAll(buf.String(), "?", "F"), 16, 0)
		return &token.UnicodeRange{Base: base(pos), Start: int(start64), End: int(end64)}
	}

	start64, _ := strconv.ParseInt(buf.String(), 16, 0)

	ch1, ch2 := s.read(), s.read()
	if ch1 == '-' && isHexDigit(ch2) {
		s.unread(1)
		buf.Reset()
		for i := 0; i < 6; i++ {
			if ch := s.read(); isHexDigit(ch) {
				buf.WriteRune(ch)
			} else {
				s.unread(1)
				break
			}
		}
		end64, _ := strconv.ParseInt(buf.String(), 16, 0)
		return &token.UnicodeRange{Base: base(pos), Start: int(start64), End: int(end64)}
	}
	s.unread(2)

	return &token.UnicodeRange{Base: base(pos), Start: int(start64), End: int(start64)}
}

func (s *Scanner) scanEscape() rune {
	ch := s.read()
	if isHexDigit(ch) {
		var buf bytes.Buffer
		buf.WriteRune(ch)
		for i := 0; i < 5; i++ {
			if next := s.read(); next == eof || isWhitespace(next) {
				break
			} else if !isHexDigit(next) {
				s.unread(1)
				break
			} else {
				buf.WriteRune(next)
			}
		}
		v, _ := strconv.ParseInt(buf.String(), 16, 0)
		return rune(v)
	} else if ch == eof {
		return '�'
	}
	return ch
}

func (s *Scanner) peekEscape() bool {
	if s.curr() != '\\' {
		return false
	}
	next := s.read()
	s.unread(1)
	return next != '\n'
}

func (s *Scanner) peekIdent() bool {
	if s.curr() == '-' {
		ch := s.read()
		s.unread(1)
		return isNameStart(ch) || s.peekEscape()
	} else if isNameStart(s.curr()) {
		return true
	} else if s.curr() == '\\' && s.peekEscape() {
		return true
	}
	return false
}

// SkipUnknownRule consumes tokens until the next balanced "}" at depth 0 or
// a top-level ";", consuming the terminator. Used when the rule parser meets
// an at-rule or prelude it does not recognize.
func (s *Scanner) SkipUnknownRule() {
	depth := 0
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.EOF:
			return
		case *token.CurlyBracketOpen:
			depth++
		case *token.CurlyBracketClose:
			depth--
			if depth <= 0 {
				return
			}
		case *token.Semicolon:
			if depth == 0 {
				return
			}
		}
	}
}

// JumpToNextSemicolon consumes tokens until the next top-level ";" or Eof,
// consuming the terminator.
func (s *Scanner) JumpToNextSemicolon() {
	depth := 0
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.EOF:
			return
		case *token.CurlyBracketOpen, *token.RoundBracketOpen, *token.SquareBracketOpen, *token.Function:
			depth++
		case *token.CurlyBracketClose, *token.RoundBracketClose, *token.SquareBracketClose:
			if depth > 0 {
				depth--
			}
		case *token.Semicolon:
			if depth == 0 {
				return
			}
		}
	}
}

// JumpToEndOfDeclaration consumes tokens until a top-level ";" or "}". The
// ";" is consumed; the "}" is left as the next token so the enclosing block
// parser sees it.
func (s *Scanner) JumpToEndOfDeclaration() {
	depth := 0
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.EOF:
			return
		case *token.RoundBracketOpen, *token.SquareBracketOpen:
			depth++
		case *token.RoundBracketClose, *token.SquareBracketClose:
			if depth > 0 {
				depth--
			}
		case *token.CurlyBracketOpen:
			depth++
		case *token.CurlyBracketClose:
			if depth == 0 {
				s.unscan(tok)
				return
			}
			depth--
		case *token.Semicolon:
			if depth == 0 {
				return
			}
		}
	}
}

// JumpToClosedArguments consumes tokens until the "(" already read by the
// caller finds its matching ")", accounting for nested "()", "[]", "{}".
// Strings and comments are already atomic by the time Scan returns them, so
// no separate handling is needed for them here.
func (s *Scanner) JumpToClosedArguments() {
	depth := 1
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.EOF:
			return
		case *token.RoundBracketOpen, *token.SquareBracketOpen, *token.CurlyBracketOpen, *token.Function:
			depth++
		case *token.RoundBracketClose, *token.SquareBracketClose, *token.CurlyBracketClose:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// unscan pushes a single already-constructed structural token back so the
// next Scan call reproduces it. Only used by JumpToEndOfDeclaration, which
// must leave "}" as the next token rather than consume it.
func (s *Scanner) unscan(tok token.Token) {
	s.pending = tok
}

func (s *Scanner) read() rune {
	if s.bufn > 0 {
		s.bufi = (s.bufi + 1) % len(s.buf)
		s.bufn--
		return s.buf[s.bufi].ch
	}

	pos := s.src.Position()
	ch := s.src.Advance()

	s.bufi = (s.bufi + 1) % len(s.buf)
	s.buf[s.bufi] = bufEntry{ch: ch, pos: pos}
	return ch
}

func (s *Scanner) unread(n int) {
	for i := 0; i < n; i++ {
		s.bufi = (s.bufi + len(s.buf) - 1) % len(s.buf)
		s.bufn++
	}
}

func (s *Scanner) curr() rune { return s.buf[s.bufi].ch }

// Pos returns the position of the rune that was most recently read.
func (s *Scanner) Pos() token.Pos { return s.buf[s.bufi].pos }

func isWhitespace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\n' }
func isLetter(ch rune) bool     { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isDigit(ch rune) bool      { return ch >= '0' && ch <= '9' }
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
func isNonASCII(ch rune) bool  { return ch >= '\u0080' }
func isNameStart(ch rune) bool { return isLetter(ch) || isNonASCII(ch) || ch == '_' }
func isName(ch rune) bool      { return isNameStart(ch) || isDigit(ch) || ch == '-' }
func isNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}
