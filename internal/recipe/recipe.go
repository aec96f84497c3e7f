// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package recipe

import (
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/errs"
)

// Recipe is an immutable ordered sequence of steps. The zero Recipe is empty
// and valid.
type Recipe struct {
	steps []Step
}

// New creates a recipe holding steps.
func New(steps ...Step) Recipe {
	return Recipe{steps: append([]Step(nil), steps...)}
}

// Len returns the number of steps.
func (r Recipe) Len() int { return len(r.steps) }

// Step returns the step at index i.
func (r Recipe) Step(i int) (Step, error) {
	if i < 0 || i >= len(r.steps) {
		return Step{}, indexError(i, len(r.steps))
	}
	return r.steps[i], nil
}

// Steps returns a copy of the step list.
func (r Recipe) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Insert returns a recipe with s inserted before index i. i may equal Len.
func (r Recipe) Insert(i int, s Step) (Recipe, error) {
	if i < 0 || i > len(r.steps) {
		return Recipe{}, fmt.Errorf("%w: insert at %d, valid range is [0, %d]", errs.ErrIndexOutOfRange, i, len(r.steps))
	}
	steps := make([]Step, 0, len(r.steps)+1)
	steps = append(steps, r.steps[:i]...)
	steps = append(steps, s)
	steps = append(steps, r.steps[i:]...)
	return Recipe{steps: steps}, nil
}

// Remove returns a recipe without the step at index i.
func (r Recipe) Remove(i int) (Recipe, error) {
	if i < 0 || i >= len(r.steps) {
		return Recipe{}, indexError(i, len(r.steps))
	}
	steps := make([]Step, 0, len(r.steps)-1)
	steps = append(steps, r.steps[:i]...)
	steps = append(steps, r.steps[i+1:]...)
	return Recipe{steps: steps}, nil
}

// Replace returns a recipe with the step at index i swapped for s.
func (r Recipe) Replace(i int, s Step) (Recipe, error) {
	if i < 0 || i >= len(r.steps) {
		return Recipe{}, indexError(i, len(r.steps))
	}
	steps := append([]Step(nil), r.steps...)
	steps[i] = s
	return Recipe{steps: steps}, nil
}

func indexError(i, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: index %d, recipe is empty", errs.ErrIndexOutOfRange, i)
	}
	return fmt.Errorf("%w: index %d, valid range is [0, %d)", errs.ErrIndexOutOfRange, i, n)
}
