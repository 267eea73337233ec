// Package diag implements the parser's error channel: a typed event that
// carries an error code plus source position to any registered listener.
// It sits below scanner, selector, value, ast, parser, and the root css
// package so that all of them can publish without creating an import cycle
// back to the public API.
package diag

import (
	"fmt"

	"github.com/csscore/css/token"
)

// Code enumerates the recoverable conditions the parser can report. Every
// code maps one-to-one onto an entry in spec §6.3.
type Code int

const (
	// Parser-level codes.
	UnknownAtRule Code = iota
	InvalidBlockStart
	InvalidToken
	InvalidSelector
	IdentExpected
	ColonMissing
	UnknownDeclarationName
	ValueMissing

	// Tokenizer-level codes.
	InvalidEscape
	UnterminatedString
	UnterminatedComment
)

var names = [...]string{
	UnknownAtRule:          "UnknownAtRule",
	InvalidBlockStart:      "InvalidBlockStart",
	InvalidToken:           "InvalidToken",
	InvalidSelector:        "InvalidSelector",
	IdentExpected:          "IdentExpected",
	ColonMissing:           "ColonMissing",
	UnknownDeclarationName: "UnknownDeclarationName",
	ValueMissing:           "ValueMissing",
	InvalidEscape:          "InvalidEscape",
	UnterminatedString:     "UnterminatedString",
	UnterminatedComment:    "UnterminatedComment",
}

func (c Code) String() string {
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// Error is the event published to listeners and, for strict single-construct
// entry points, returned as a SyntaxError.
type Error struct {
	Code Code
	Pos  token.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Code, e.Pos.Line, e.Pos.Char)
}

// SyntaxError wraps one or more Errors for the strict entry points
// (ParseMediaList, ParseMedium) that fail rather than recover.
type SyntaxError struct {
	Errors []*Error
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 0 {
		return "SyntaxError"
	}
	if len(e.Errors) == 1 {
		return "SyntaxError: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("SyntaxError: %s (and %d more)", e.Errors[0], len(e.Errors)-1)
}

// Listener receives a synchronous callback for every recoverable error.
// Implementations must not call back into the parser that invoked them.
type Listener interface {
	OnError(code Code, pos token.Pos)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(code Code, pos token.Pos)

func (f ListenerFunc) OnError(code Code, pos token.Pos) { f(code, pos) }

// Sink fans a published error out to every registered listener and keeps its
// own record, so callers that only want the final error list (rather than a
// live callback) can still get one.
type Sink struct {
	Listeners []Listener
	Errors    []*Error
}

// Publish records the error and invokes every listener synchronously, in
// registration order.
func (s *Sink) Publish(code Code, pos token.Pos) {
	e := &Error{Code: code, Pos: pos}
	s.Errors = append(s.Errors, e)
	for _, l := range s.Listeners {
		l.OnError(code, pos)
	}
}
