// Package mutator turns one edit intent into a new Recipe. Nothing here keeps
// state between calls: every function reads its inputs and returns a fresh
// value or an error, and the input recipe is never touched.
package mutator

import (
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/formula"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
)

// Mutator applies edits against one action catalog.
type Mutator struct {
	actions      action.Repository
	actionColumn string
}

// New creates a Mutator resolving actions through repo. actionColumn is the
// key of the action selector column.
func New(repo action.Repository, actionColumn string) *Mutator {
	return &Mutator{actions: repo, actionColumn: actionColumn}
}

// AddDefaultStep inserts a step of the wait service action at index, which
// must be in [0, Len].
func (m *Mutator) AddDefaultStep(r recipe.Recipe, index int) (recipe.Recipe, error) {
	if index < 0 || index > r.Len() {
		return recipe.Recipe{}, fmt.Errorf("%w: insert at %d, valid range is [0, %d]", errs.ErrIndexOutOfRange, index, r.Len())
	}
	def, err := m.actions.Service(action.RoleWait)
	if err != nil {
		return recipe.Recipe{}, err
	}
	step, err := recipe.NewStep(def)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return r.Insert(index, step)
}

// RemoveStep drops the step at index.
func (m *Mutator) RemoveStep(r recipe.Recipe, index int) (recipe.Recipe, error) {
	return r.Remove(index)
}

// ReplaceStepAction rebuilds the step at index as a step of actionID. A column
// the new action declares with the same type keeps its current value; every
// other column of the new action starts at its configured default. Columns
// the new action does not declare are dropped, and the deploy duration
// follows the new action. The selector and the columns bound by the new
// action's formula always start at their defaults, so the equation holds.
func (m *Mutator) ReplaceStepAction(r recipe.Recipe, index int, actionID int16) (recipe.Recipe, error) {
	old, err := r.Step(index)
	if err != nil {
		return recipe.Recipe{}, err
	}
	def, err := m.actions.ByID(actionID)
	if err != nil {
		return recipe.Recipe{}, err
	}
	fresh := map[string]bool{m.actionColumn: true}
	if def.Formula != nil {
		eq, err := formula.Parse(def.Formula.Expression)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("action %q: %w", def.Name, err)
		}
		for _, v := range eq.Variables() {
			fresh[v] = true
		}
	}

	fields := make([]recipe.Field, 0, len(def.Columns))
	for _, c := range def.Columns {
		p := c.Default
		if prev, ok := old.Property(c.Key); ok && !fresh[c.Key] && prev.TypeID() == c.TypeID {
			p = prev
		}
		fields = append(fields, recipe.Field{Key: c.Key, Property: p})
	}
	step, err := recipe.BuildStep(def.DeployDuration, fields...)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("action %q: %w", def.Name, err)
	}
	return r.Replace(index, step)
}

// UpdateStepProperty sets column on the step at index to value.
func (m *Mutator) UpdateStepProperty(r recipe.Recipe, index int, column string, value property.Value) (recipe.Recipe, error) {
	step, err := r.Step(index)
	if err != nil {
		return recipe.Recipe{}, err
	}
	updated, err := SetProperty(step, column, value)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return r.Replace(index, updated)
}

// SetProperty returns step with column re-validated to value.
func SetProperty(step recipe.Step, column string, value property.Value) (recipe.Step, error) {
	current, ok := step.Property(column)
	if !ok {
		return recipe.Step{}, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, column)
	}
	next, err := current.WithValue(value)
	if err != nil {
		return recipe.Step{}, fmt.Errorf("column %q: %w", column, err)
	}
	return step.With(column, next)
}
