// Package formula keeps dependent step parameters consistent.
//
// An action may declare one equation over its column keys, for example
//
//	final = initial + speed * step_duration
//
// together with a recalculation order. When one of the equation's columns is
// edited, the Coordinator holds that column fixed and solves the equation for
// the first column in the recalculation order that is not the edited one.
//
// Both sides of the equation are parsed with the HCL expression syntax, so the
// usual arithmetic operators, parentheses and numeric literals are available
// and column keys are plain identifiers. The solver isolates the unknown
// symbolically when it occurs once, by inverting each operation on the path
// from the root of its side down to the unknown. When the unknown occurs more
// than once it falls back to a numeric solve that only accepts equations that
// are linear in the unknown.
package formula
