// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package recipe provides the immutable value tree of a sequential process
// recipe: an ordered list of Steps, each a set of typed properties keyed by
// column.
//
// A key present on a Step is a column that applies to the step's action. An
// absent key means "not applicable"; there is no nil or placeholder property
// that could be confused with "not yet set".
//
// Every operation returns a new Recipe or Step. Unchanged steps are shared
// between the old and new recipe, which is safe because nothing ever writes
// to a Step after it is built.
package recipe
