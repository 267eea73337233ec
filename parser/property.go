package parser

import (
	"github.com/csscore/css/ast"
	"github.com/csscore/css/value"
)

// unknownProperty is the Property used when the caller supplies no
// PropertyFactory: it accepts any value for any declaration name without
// validating it against a property-specific grammar.
type unknownProperty struct {
	name      string
	value     *value.Value
	important bool
}

func newUnknownProperty(name string) *unknownProperty {
	return &unknownProperty{name: name}
}

// NewUnknownProperty returns the Property used when no PropertyFactory
// accepts a given declaration name: it stores whatever value it's given
// without validating it, so unrecognized declarations still round-trip.
func NewUnknownProperty(name string) ast.Property {
	return newUnknownProperty(name)
}

func (p *unknownProperty) Name() string        { return p.name }
func (p *unknownProperty) Value() *value.Value { return p.value }
func (p *unknownProperty) Important() bool     { return p.important }

func (p *unknownProperty) TrySetValue(v *value.Value) bool {
	p.value = v
	p.important = v.Important
	return true
}
