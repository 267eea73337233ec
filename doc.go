/*
Package css implements a CSS Syntax Level 3 compliant scanner and parser,
producing a typed CSS object model rather than a bare component-value tree.

Basics

Parsing happens in the layered packages under this module, and this package
is the assembled public surface over them:

  - token defines the lexical token set.
  - scanner turns a rune stream into tokens, switching between Data,
    Selector, and Value modes as the parser directs it, and exposes the
    resync primitives (SkipUnknownRule, JumpToNextSemicolon,
    JumpToEndOfDeclaration, JumpToClosedArguments) error recovery uses.
  - selector and value incrementally build a selector list or a
    declaration value from tokens fed to them one at a time, parsing lazily
    when the caller asks for a result.
  - ast defines the CSS object model: a Stylesheet of Rules (StyleRule,
    MediaRule, SupportsRule, KeyframesRule, and so on), each carrying a
    non-owning back-reference to its parent rule and stylesheet.
  - parser drives a scanner.Scanner and selector/value constructors to
    assemble the ast tree, dispatching at-rules by name and publishing
    every recoverable grammar violation to a diag.Sink instead of
    aborting.

This top-level package wires those together behind the parse surface in
parse.go and async.go, and adds Printer, a canonical CSS-OM serializer.

Abstract Syntax Tree

A Stylesheet is a sequence of Rules in source order. A StyleRule pairs a
selector.Selector with an ast.DeclarationBlock. The at-rules each have their
own shape matching the grammar they introduce — @media and @supports carry
nested Rules, @keyframes carries KeyframeRules keyed by percentage, and an
at-rule the parser has no grammar for is preserved as an UnknownAtRule so a
caller can still see what was there.

Declaration values are a small component-value tree (value.Leaf,
value.Function, value.Block) rather than a single grammar per property;
validating a value against a specific property's grammar is the job of the
PropertyFactory a caller plugs in through Config, not this package.
*/
package css
