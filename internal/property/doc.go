// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package property provides the validated, typed scalar values that fill the
// columns of a recipe step.
//
// # Core Concepts
//
//   - Value: an untyped-at-rest scalar of one Kind (Integer16, Float32 or Text).
//     Values are produced by the constructors Int16, Float32 and Text, or by a
//     TypeDefinition parsing user input.
//
//   - TypeDefinition: the rules for one property type id: its kind, units,
//     numeric range or maximum text length, and whether negative input is
//     folded to its absolute value.
//
//   - Property: a Value paired with its TypeDefinition. The only ways to get a
//     Property are New and Property.WithValue, and both validate, so a Property
//     that exists is always a legal value for its type.
//
//   - Registry: type id to TypeDefinition, loaded once with the action catalog.
//
// Properties are immutable. WithValue returns a new Property and leaves the
// receiver untouched, which is what lets recipe steps share properties across
// edits without copying them.
package property
