// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package property

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// TypeDefinition describes one property type id.
type TypeDefinition struct {
	ID    string
	Kind  Kind
	Units string

	// Min and Max bound numeric kinds. Nil means unbounded on that side.
	Min *float64
	Max *float64

	// MaxLength bounds text in runes. Zero means unbounded.
	MaxLength int

	// NonNegative folds negative numeric input to its absolute value before
	// validation.
	NonNegative bool
}

// Parse converts user text into a Value of the definition's kind. Numeric
// text may carry the definition's units as a suffix, so Format output parses
// back to the same value. It does not validate the range; callers go through
// New or WithValue for that.
func (d *TypeDefinition) Parse(text string) (Value, error) {
	if d.Kind == KindText {
		return Text(text), nil
	}
	bare := strings.TrimSpace(text)
	if d.Units != "" {
		bare = strings.TrimSpace(strings.TrimSuffix(bare, d.Units))
	}
	num, err := convert.Convert(cty.StringVal(bare), cty.Number)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a number for %q: %v", errs.ErrConversionFailed, text, d.ID, err)
	}
	return d.fromCtyNumber(num)
}

// Clone returns a copy of d that shares no memory with it.
func (d *TypeDefinition) Clone() *TypeDefinition {
	if d == nil {
		return nil
	}
	cp := *d
	if d.Min != nil {
		lo := *d.Min
		cp.Min = &lo
	}
	if d.Max != nil {
		hi := *d.Max
		cp.Max = &hi
	}
	return &cp
}

// FromCty converts a cty value, such as a catalog default, into a Value of the
// definition's kind.
func (d *TypeDefinition) FromCty(val cty.Value) (Value, error) {
	if val.IsNull() || !val.IsKnown() {
		return Value{}, fmt.Errorf("%w: null value for %q", errs.ErrConversionFailed, d.ID)
	}
	if d.Kind == KindText {
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s for %q: %v", errs.ErrConversionFailed, val.Type().FriendlyName(), d.ID, err)
		}
		return Text(str.AsString()), nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s for %q: %v", errs.ErrConversionFailed, val.Type().FriendlyName(), d.ID, err)
	}
	return d.fromCtyNumber(num)
}

func (d *TypeDefinition) fromCtyNumber(num cty.Value) (Value, error) {
	bf := num.AsBigFloat()
	switch d.Kind {
	case KindInteger16:
		if !bf.IsInt() {
			return Value{}, fmt.Errorf("%w: %s is not a whole number for %q", errs.ErrConversionFailed, bf.String(), d.ID)
		}
		i, _ := bf.Int64()
		if i < math.MinInt16 || i > math.MaxInt16 {
			return Value{}, fmt.Errorf("%w: %d does not fit in int16 for %q", errs.ErrConversionFailed, i, d.ID)
		}
		return Int16(int16(i)), nil
	case KindFloat32:
		f, _ := bf.Float64()
		if math.IsInf(f, 0) || math.Abs(f) > math.MaxFloat32 {
			return Value{}, fmt.Errorf("%w: %s does not fit in float32 for %q", errs.ErrConversionFailed, bf.String(), d.ID)
		}
		return Float32(float32(f)), nil
	default:
		return Value{}, fmt.Errorf("%w: %q is %s, not numeric", errs.ErrTypeMismatch, d.ID, d.Kind)
	}
}

// FromNumber builds a Value of the definition's kind from a computed number.
// Integer kinds are rounded to the nearest whole number.
func (d *TypeDefinition) FromNumber(n float64) (Value, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}, fmt.Errorf("%w: %v is not a finite number for %q", errs.ErrCalculation, n, d.ID)
	}
	switch d.Kind {
	case KindInteger16:
		r := math.Round(n)
		if r < math.MinInt16 || r > math.MaxInt16 {
			return Value{}, fmt.Errorf("%w: %v does not fit in int16 for %q", errs.ErrValidationFailed, n, d.ID)
		}
		return Int16(int16(r)), nil
	case KindFloat32:
		if math.Abs(n) > math.MaxFloat32 {
			return Value{}, fmt.Errorf("%w: %v does not fit in float32 for %q", errs.ErrValidationFailed, n, d.ID)
		}
		return Float32(float32(n)), nil
	default:
		return Value{}, fmt.Errorf("%w: %q is %s, not numeric", errs.ErrTypeMismatch, d.ID, d.Kind)
	}
}

// Format renders a value with the definition's units, if any.
func (d *TypeDefinition) Format(v Value) string {
	if d.Units == "" || v.Kind() == KindText {
		return v.String()
	}
	return v.String() + " " + d.Units
}

// Validate checks a value against the definition's kind, range and length.
func (d *TypeDefinition) Validate(v Value) error {
	if v.Kind() != d.Kind {
		return fmt.Errorf("%w: %q expects %s, got %s", errs.ErrTypeMismatch, d.ID, d.Kind, v.Kind())
	}
	if d.Kind == KindText {
		if d.MaxLength > 0 && utf8.RuneCountInString(v.s) > d.MaxLength {
			return fmt.Errorf("%w: %q allows at most %d characters", errs.ErrValidationFailed, d.ID, d.MaxLength)
		}
		return nil
	}
	n, _ := v.Number()
	if d.Min != nil && n < *d.Min {
		return fmt.Errorf("%w: %q must be at least %v, got %v", errs.ErrValidationFailed, d.ID, *d.Min, n)
	}
	if d.Max != nil && n > *d.Max {
		return fmt.Errorf("%w: %q must be at most %v, got %v", errs.ErrValidationFailed, d.ID, *d.Max, n)
	}
	return nil
}

// normalize applies the non-negative rule.
func (d *TypeDefinition) normalize(v Value) (Value, error) {
	if !d.NonNegative {
		return v, nil
	}
	switch v.Kind() {
	case KindInteger16:
		if v.i < 0 {
			if v.i == math.MinInt16 {
				return Value{}, fmt.Errorf("%w: |%d| does not fit in int16 for %q", errs.ErrValidationFailed, v.i, d.ID)
			}
			return Int16(-v.i), nil
		}
	case KindFloat32:
		if v.f < 0 {
			return Float32(-v.f), nil
		}
	}
	return v, nil
}
