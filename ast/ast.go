// Package ast defines the CSS object model produced by the parser: a
// Stylesheet made of Rules, each carrying a non-owning back-reference to
// its parent rule and owning Stylesheet the way the DOM's CSSOM does, so a
// rule can be relocated into a different tree without copying its children.
package ast

import (
	"github.com/csscore/css/selector"
	"github.com/csscore/css/value"
)

// Node is implemented by every tree element.
type Node interface {
	node()
}

// Rule is implemented by every top-level or nested rule kind.
type Rule interface {
	Node
	rule()
	// ParentRule is the enclosing rule, or nil at the top of a stylesheet.
	ParentRule() Rule
	// ParentStylesheet is the stylesheet the rule belongs to.
	ParentStylesheet() *Stylesheet
}

// Stylesheet is the root of a parsed CSS document.
type Stylesheet struct {
	Rules []Rule
}

func (*Stylesheet) node() {}

// Base is embedded by every concrete Rule so the back-references are
// set in one place by the parser.
type Base struct {
	Parent Rule
	Sheet  *Stylesheet
}

func (b Base) ParentRule() Rule              { return b.Parent }
func (b Base) ParentStylesheet() *Stylesheet { return b.Sheet }

// NewBase constructs the back-reference pair the parser attaches to every
// rule it builds, since Base's fields can also be set directly with a
// composite literal from within this package or any other.
func NewBase(parent Rule, sheet *Stylesheet) Base {
	return Base{Parent: parent, Sheet: sheet}
}

// StyleRule is a qualified rule: a selector list plus a declaration block.
type StyleRule struct {
	Base
	Selector *selector.Selector
	Style    *DeclarationBlock
}

// CharsetRule is "@charset "<encoding>";". The grammar requires it be the
// first rule of the stylesheet when present; neither the parser nor this
// type checks that, so a CharsetRule can appear at any position.
type CharsetRule struct {
	Base
	Encoding string
}

// ImportRule is "@import <href> <media-list>;".
type ImportRule struct {
	Base
	Href  string
	Media []CssMedium
}

// NamespaceRule is "@namespace <prefix>? <uri>;".
type NamespaceRule struct {
	Base
	Prefix string
	URI    string
}

// MediaRule is "@media <media-list> { <rules> }".
type MediaRule struct {
	Base
	Media []CssMedium
	Rules []Rule
}

// SupportsRule is "@supports <condition> { <rules> }".
type SupportsRule struct {
	Base
	Condition Condition
	Rules     []Rule
}

// DocumentRule is "@document <url-matching-functions> { <rules> }", a
// legacy at-rule some authored stylesheets still carry.
type DocumentRule struct {
	Base
	Functions []DocumentFunction
	Rules     []Rule
}

// DocumentFunction is one matching function inside an @document prelude,
// e.g. url-prefix(...), domain(...), regexp(...), or a bare url(...).
type DocumentFunction struct {
	Name string
	Arg  string
}

// PageRule is "@page <selector>? { <declarations> }".
type PageRule struct {
	Base
	Selector string
	Style    *DeclarationBlock
}

// FontFaceRule is "@font-face { <declarations> }".
type FontFaceRule struct {
	Base
	Style *DeclarationBlock
}

// KeyframesRule is "@keyframes <name> { <keyframe rules> }".
type KeyframesRule struct {
	Base
	Name      string
	Keyframes []*KeyframeRule
}

// KeyframeRule is one "<keyframe-selector-list> { <declarations> }" inside
// a KeyframesRule.
type KeyframeRule struct {
	Base
	Selectors []KeyframeSelector
	Style     *DeclarationBlock
}

// KeyframeSelector is a single keyframe offset, 0 through 100 inclusive;
// "from" parses to 0 and "to" parses to 100.
type KeyframeSelector struct {
	Percentage float64
}

// UnknownAtRule preserves an at-rule the parser doesn't know the grammar
// for, so a later stage (the printer, or a caller walking the tree) can
// still see what was there. HasBlock is false for at-rules ended by ";".
type UnknownAtRule struct {
	Base
	Name     string
	Prelude  []value.Component
	HasBlock bool
	Block    []value.Component
}

func (*StyleRule) rule()     {}
func (*CharsetRule) rule()   {}
func (*ImportRule) rule()    {}
func (*NamespaceRule) rule() {}
func (*MediaRule) rule()     {}
func (*SupportsRule) rule()  {}
func (*DocumentRule) rule()  {}
func (*PageRule) rule()      {}
func (*FontFaceRule) rule()  {}
func (*KeyframesRule) rule() {}
func (*KeyframeRule) rule()  {}
func (*UnknownAtRule) rule() {}

func (*StyleRule) node()     {}
func (*CharsetRule) node()   {}
func (*ImportRule) node()    {}
func (*NamespaceRule) node() {}
func (*MediaRule) node()     {}
func (*SupportsRule) node()  {}
func (*DocumentRule) node()  {}
func (*PageRule) node()      {}
func (*FontFaceRule) node()  {}
func (*KeyframesRule) node() {}
func (*KeyframeRule) node()  {}
func (*UnknownAtRule) node() {}

// CssMedium is one comma-separated entry of a media list, e.g.
// "screen and (min-width: 400px)".
type CssMedium struct {
	Modifier string // "", "not", "only"
	Type     string // "all" when omitted before a feature-only medium
	Features []MediaFeature
}

// MediaFeature is one parenthesized condition inside a CssMedium, e.g.
// "(min-width: 400px)" or "(width >= 400px)". Op2 and Value2 hold the
// second comparison of a two-sided range such as
// "(400px <= width <= 800px)"; the parser never fills them, and it rejects
// a feature that starts with a value instead of a name.
type MediaFeature struct {
	Name  string
	Op    string // "", "=", "<", "<=", ">", ">="
	Value *value.Value

	Op2    string // "" unless this is a two-sided range
	Value2 *value.Value
}

// Condition is implemented by every node of an @supports condition tree.
type Condition interface {
	condition()
}

// DeclarationCondition tests a single "(property: value)" declaration.
type DeclarationCondition struct {
	Name  string
	Value *value.Value
}

// SelectorCondition tests "selector(<complex-selector>)".
type SelectorCondition struct {
	Selector *selector.Selector
}

// NotCondition negates Cond.
type NotCondition struct {
	Cond Condition
}

// AndCondition requires every condition in Conds to hold.
type AndCondition struct {
	Conds []Condition
}

// OrCondition requires at least one condition in Conds to hold.
type OrCondition struct {
	Conds []Condition
}

// GroupCondition is a parenthesized condition, "(<condition>)", that is
// neither a declaration nor a selector test: it exists so a grouping the
// author wrote stays visible in the tree even though it doesn't change what
// the condition evaluates to.
type GroupCondition struct {
	Cond Condition
}

func (DeclarationCondition) condition() {}
func (SelectorCondition) condition()    {}
func (NotCondition) condition()         {}
func (AndCondition) condition()         {}
func (OrCondition) condition()          {}
func (GroupCondition) condition()       {}

// Property is implemented by the values a DeclarationBlock stores. The
// fallback property the root css package's UnknownPropertyFactory returns
// satisfies it, and so does any PropertyFactory-produced value a caller
// plugs in.
type Property interface {
	Name() string
	Value() *value.Value
	// TrySetValue replaces the property's value, returning false if v is not
	// acceptable for this property (e.g. the wrong number or type of
	// components for a known longhand). The fallback unknown property
	// always accepts.
	TrySetValue(v *value.Value) bool
	Important() bool
}

// DeclarationBlock is an ordered, name-indexed set of declarations. Setting
// a name that already exists overwrites the existing Property in place
// (last-write-wins) rather than appending a duplicate entry, matching
// CSSOM's CSSStyleDeclaration semantics.
type DeclarationBlock struct {
	names []string
	index map[string]int
	props []Property
}

// NewDeclarationBlock returns an empty block.
func NewDeclarationBlock() *DeclarationBlock {
	return &DeclarationBlock{index: make(map[string]int)}
}

// Set stores p under name, overwriting any existing entry for name in
// place.
func (d *DeclarationBlock) Set(name string, p Property) {
	if i, ok := d.index[name]; ok {
		d.props[i] = p
		return
	}
	d.index[name] = len(d.names)
	d.names = append(d.names, name)
	d.props = append(d.props, p)
}

// Get returns the property stored under name, if any.
func (d *DeclarationBlock) Get(name string) (Property, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.props[i], true
}

// Len returns the number of declarations.
func (d *DeclarationBlock) Len() int { return len(d.names) }

// At returns the name and property at position i, in declaration order.
func (d *DeclarationBlock) At(i int) (string, Property) {
	return d.names[i], d.props[i]
}
