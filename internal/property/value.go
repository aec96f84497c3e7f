// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package property

import (
	"strconv"
)

// Kind is the system kind of a property value.
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger16
	KindFloat32
	KindText
)

// String returns the catalog keyword for the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger16:
		return "int16"
	case KindFloat32:
		return "float32"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// ParseKind maps a catalog keyword to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "int16":
		return KindInteger16, true
	case "float32":
		return KindFloat32, true
	case "text":
		return KindText, true
	default:
		return KindInvalid, false
	}
}

// Value is a scalar of one Kind. The zero Value has KindInvalid.
// Values are comparable with ==.
type Value struct {
	kind Kind
	i    int16
	f    float32
	s    string
}

// Int16 returns an Integer16 value.
func Int16(v int16) Value { return Value{kind: KindInteger16, i: v} }

// Float32 returns a Float32 value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: v} }

// Text returns a Text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Kind reports the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Number returns the numeric value as float64. ok is false for text and
// invalid values.
func (v Value) Number() (n float64, ok bool) {
	switch v.kind {
	case KindInteger16:
		return float64(v.i), true
	case KindFloat32:
		return float64(v.f), true
	default:
		return 0, false
	}
}

// String renders the value without units.
func (v Value) String() string {
	switch v.kind {
	case KindInteger16:
		return strconv.Itoa(int(v.i))
	case KindFloat32:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindText:
		return v.s
	default:
		return "<invalid>"
	}
}
