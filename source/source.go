// Package source implements the bounded character stream that sits below
// the tokenizer: lookahead, line/column/offset tracking, and a prefetch-all
// operation the asynchronous parse entry point uses as its one suspension
// point.
package source

import (
	"bufio"
	"context"
	"io"

	"github.com/csscore/css/token"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// eof is returned by Peek/Advance once the underlying reader is exhausted.
const eof rune = -1

// TextSource is the external capability the scanner is built against (spec
// §6.1). Source below is the built-in implementation; a caller may supply
// any other type satisfying this interface (e.g. one backed by a network
// stream) without the scanner or parser knowing the difference.
type TextSource interface {
	Peek() rune
	Advance() rune
	Position() token.Pos
	PrefetchAll(ctx context.Context) error
}

// Source is a TextSource over an io.Reader, decoded as UTF-8 by default.
// Use WithEncoding to transcode another charset before scanning begins.
type Source struct {
	rd  io.RuneReader
	raw io.Reader
	enc encoding.Encoding

	pos        token.Pos
	prefetched bool

	buf  []rune // fully materialized runes, once prefetched or read on demand
	i    int
	lazy *lazyReader
}

// New returns a Source that decodes r as UTF-8.
func New(r io.Reader) *Source {
	return &Source{raw: r, lazy: &lazyReader{rd: bufio.NewReader(r)}}
}

// NewString returns a Source already fully materialized from s; PrefetchAll
// on it is a no-op.
func NewString(s string) *Source {
	return &Source{buf: []rune(s), prefetched: true}
}

// WithEncoding sets the charset r was declared to be encoded with before
// bytes are read. It should be set at construction, before the first Peek
// or Advance.
func (s *Source) WithEncoding(enc encoding.Encoding) *Source {
	s.enc = enc
	if s.raw != nil {
		s.lazy = &lazyReader{rd: bufio.NewReader(enc.NewDecoder().Reader(s.raw))}
	}
	return s
}

// DefaultEncoding returns the UTF-8 encoding used when a Config does not
// otherwise specify one; it is exposed so callers composing a Config can
// reference the same value the package uses internally.
func DefaultEncoding() encoding.Encoding {
	return unicode.UTF8
}

// lazyReader wraps a bufio.Reader for the synchronous, non-prefetched path.
type lazyReader struct {
	rd *bufio.Reader
}

// PrefetchAll materializes the entire source into memory. It is the only
// suspension point in the asynchronous parse path; cancellation is only
// observed here; once it returns, parsing runs to completion without
// yielding again.
func (s *Source) PrefetchAll(ctx context.Context) error {
	if s.prefetched {
		return nil
	}
	var buf []rune
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ch, _, err := s.lazy.rd.ReadRune()
		if err != nil {
			break
		}
		buf = append(buf, normalize(ch, s.lazy.rd))
	}
	s.buf = buf
	s.prefetched = true
	s.lazy = nil
	return nil
}

// normalize applies the CSS Syntax Level 3 input preprocessing: CR, CRLF,
// and FF become LF; NUL becomes U+FFFD.
func normalize(ch rune, rd *bufio.Reader) rune {
	switch ch {
	case '\f':
		return '\n'
	case '\r':
		if next, _, err := rd.ReadRune(); err == nil && next != '\n' {
			_ = rd.UnreadRune()
		}
		return '\n'
	case '\000':
		return '�'
	default:
		return ch
	}
}

// Peek returns the rune at the current position without consuming it.
func (s *Source) Peek() rune {
	s.fill(1)
	if s.i >= len(s.buf) {
		return eof
	}
	return s.buf[s.i]
}

// Advance consumes and returns the rune at the current position, advancing
// line/char/offset bookkeeping.
func (s *Source) Advance() rune {
	s.fill(1)
	if s.i >= len(s.buf) {
		return eof
	}
	ch := s.buf[s.i]
	s.i++
	if ch == '\n' {
		s.pos.Line++
		s.pos.Char = 0
	} else {
		s.pos.Char++
	}
	s.pos.Offset++
	return ch
}

// Position returns the position of the rune that would next be returned by
// Advance.
func (s *Source) Position() token.Pos {
	return s.pos
}

// fill ensures at least n runes are buffered ahead of s.i when running in
// the lazy (non-prefetched) mode.
func (s *Source) fill(n int) {
	if s.prefetched || s.lazy == nil {
		return
	}
	for len(s.buf)-s.i < n {
		ch, _, err := s.lazy.rd.ReadRune()
		if err != nil {
			return
		}
		s.buf = append(s.buf, normalize(ch, s.lazy.rd))
	}
}
