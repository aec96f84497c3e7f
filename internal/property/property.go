// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package property

import (
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/errs"
)

// Property is a validated Value bound to its TypeDefinition.
// The zero Property is not a usable value; see IsZero.
type Property struct {
	def   *TypeDefinition
	value Value
}

// New validates v against def and returns the resulting Property. Negative
// numbers are folded to their absolute value when def is NonNegative.
func New(v Value, def *TypeDefinition) (Property, error) {
	if def == nil {
		return Property{}, fmt.Errorf("%w: nil definition", errs.ErrUnknownPropertyType)
	}
	if v.Kind() != def.Kind {
		return Property{}, fmt.Errorf("%w: %q expects %s, got %s", errs.ErrTypeMismatch, def.ID, def.Kind, v.Kind())
	}
	v, err := def.normalize(v)
	if err != nil {
		return Property{}, err
	}
	if err := def.Validate(v); err != nil {
		return Property{}, err
	}
	return Property{def: def, value: v}, nil
}

// WithValue returns a new Property of the same type holding v. Text input for
// a numeric type is parsed first. The receiver is never modified.
func (p Property) WithValue(v Value) (Property, error) {
	if p.def == nil {
		return Property{}, fmt.Errorf("%w: zero property", errs.ErrUnknownPropertyType)
	}
	if v.Kind() == KindText && p.def.Kind != KindText {
		parsed, err := p.def.Parse(v.s)
		if err != nil {
			return Property{}, err
		}
		v = parsed
	}
	return New(v, p.def)
}

// IsZero reports whether p is the zero Property.
func (p Property) IsZero() bool { return p.def == nil }

// Definition returns a copy of the property's type definition. Changing it
// has no effect on p.
func (p Property) Definition() *TypeDefinition { return p.def.Clone() }

// TypeID returns the id of the property's type definition.
func (p Property) TypeID() string {
	if p.def == nil {
		return ""
	}
	return p.def.ID
}

// Value returns the stored value.
func (p Property) Value() Value { return p.value }

// Number returns the stored value as float64 for numeric kinds.
func (p Property) Number() (float64, bool) { return p.value.Number() }

// Format renders the value with units.
func (p Property) Format() string {
	if p.def == nil {
		return ""
	}
	return p.def.Format(p.value)
}

// Equal reports whether both properties share a type id and hold equal values.
func (p Property) Equal(o Property) bool {
	return p.TypeID() == o.TypeID() && p.value == o.value
}

// Scalar is the set of Go types a Property can be read as.
type Scalar interface {
	int16 | float32 | string
}

// Get reads the stored value as T. It fails with errs.ErrTypeMismatch when the
// stored kind is not the kind of T.
func Get[T Scalar](p Property) (T, error) {
	var out T
	switch ptr := any(&out).(type) {
	case *int16:
		if p.value.kind == KindInteger16 {
			*ptr = p.value.i
			return out, nil
		}
	case *float32:
		if p.value.kind == KindFloat32 {
			*ptr = p.value.f
			return out, nil
		}
	case *string:
		if p.value.kind == KindText {
			*ptr = p.value.s
			return out, nil
		}
	}
	return out, fmt.Errorf("%w: %q holds %s, requested %T", errs.ErrTypeMismatch, p.TypeID(), p.value.kind, out)
}
