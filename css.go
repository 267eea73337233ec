package css

import (
	"github.com/csscore/css/ast"
	"github.com/csscore/css/diag"
	"github.com/csscore/css/parser"
	"github.com/csscore/css/source"
	"golang.org/x/text/encoding"
)

// Error is one recoverable parse problem: an error code plus the source
// position it occurred at.
type Error = diag.Error

// ErrorCode enumerates the recoverable conditions a parse can report.
type ErrorCode = diag.Code

// Recoverable error codes (spec §6.3).
const (
	UnknownAtRule          = diag.UnknownAtRule
	InvalidBlockStart      = diag.InvalidBlockStart
	InvalidToken           = diag.InvalidToken
	InvalidSelector        = diag.InvalidSelector
	IdentExpected          = diag.IdentExpected
	ColonMissing           = diag.ColonMissing
	UnknownDeclarationName = diag.UnknownDeclarationName
	ValueMissing           = diag.ValueMissing
	InvalidEscape          = diag.InvalidEscape
	UnterminatedString     = diag.UnterminatedString
	UnterminatedComment    = diag.UnterminatedComment
)

// SyntaxError is returned by the strict single-construct entry points
// (ParseMediaList, ParseMedium) when the construct is unparseable or
// tokens remain after it.
type SyntaxError = diag.SyntaxError

// ErrorListener receives a synchronous callback for every recoverable
// error a parse publishes.
type ErrorListener = diag.Listener

// ErrorListenerFunc adapts a plain function to the ErrorListener interface.
type ErrorListenerFunc = diag.ListenerFunc

// Property is a single parsed and stored declaration value.
type Property = ast.Property

// PropertyFactory builds the Property for a declaration name; it is the
// pluggable collaborator spec §6.1 calls "Property factory". The value is
// not validated against a property-specific grammar unless the
// PropertyFactory's TrySetValue implementation does so itself.
type PropertyFactory = parser.PropertyFactory

// Config carries the per-parse collaborators and feature toggles: the
// registered error listeners, the PropertyFactory for declaration values,
// and the compatibility toggle for rules with an invalid selector.
type Config struct {
	// Listeners receive every recoverable error published during the parse.
	Listeners []ErrorListener

	// Properties builds Property values for declaration names. A nil
	// Properties falls back to UnknownPropertyFactory, which accepts any
	// value for any name.
	Properties PropertyFactory

	// KeepInvalidSelectors controls what happens to a qualified rule whose
	// selector constructor could not produce a result. The spec's Open
	// Question leaves this a compatibility choice; the default, false,
	// matches the normative "MUST drop" line and discards the rule. Set it
	// true to keep parsing the rule's declaration block anyway, attaching
	// a nil Selector.
	KeepInvalidSelectors bool

	// DefaultEncoding is the charset a *source.Source is decoded with,
	// applied by ParseStylesheet and ParseStylesheetAsync when the supplied
	// source is a *source.Source. A "@charset" rule in the input is recorded
	// as a CharsetRule and does not change the decoding. A nil
	// DefaultEncoding leaves the source's own default (UTF-8) in place.
	DefaultEncoding encoding.Encoding
}

func (c Config) propertyFactory() PropertyFactory {
	if c.Properties != nil {
		return c.Properties
	}
	return UnknownPropertyFactory{}
}

func (c Config) newSink() *diag.Sink {
	return &diag.Sink{Listeners: c.Listeners}
}

func (c Config) parserOptions() parser.Options {
	return parser.Options{KeepInvalidSelectors: c.KeepInvalidSelectors}
}

// applyEncoding sets src's decoding charset from c.DefaultEncoding when src
// is a *source.Source and a DefaultEncoding was configured; any other
// TextSource implementation is left untouched, since WithEncoding is
// specific to this package's own Source.
func (c Config) applyEncoding(src source.TextSource) {
	if c.DefaultEncoding == nil {
		return
	}
	if s, ok := src.(*source.Source); ok {
		s.WithEncoding(c.DefaultEncoding)
	}
}

// UnknownPropertyFactory is the built-in, zero-value-safe PropertyFactory:
// it accepts any value for any declaration name without validating it
// against a property-specific grammar, so unrecognized declarations still
// round-trip through the CSS-OM instead of being silently dropped.
type UnknownPropertyFactory struct{}

func (UnknownPropertyFactory) NewProperty(name string) Property {
	return parser.NewUnknownProperty(name)
}
