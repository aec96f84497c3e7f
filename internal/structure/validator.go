// Package structure checks that every step of a recipe agrees with the action
// catalog. It says nothing about loops or timing; an empty result only means
// the steps are well-formed.
package structure

import (
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/recipe"
)

// Validator checks recipes against one catalog.
type Validator struct {
	actions      action.Repository
	actionColumn string
}

// New creates a Validator. actionColumn is the key holding each step's action id.
func New(repo action.Repository, actionColumn string) *Validator {
	return &Validator{actions: repo, actionColumn: actionColumn}
}

// Validate returns every structural problem in r, in step order. Each error
// is an *errs.StructuralError.
func (v *Validator) Validate(r recipe.Recipe) []error {
	var problems []error
	for i, step := range r.Steps() {
		problems = append(problems, v.validateStep(i, step)...)
	}
	return problems
}

func (v *Validator) validateStep(i int, step recipe.Step) []error {
	var problems []error
	report := func(column, format string, args ...any) {
		problems = append(problems, &errs.StructuralError{Step: i, Column: column, Reason: fmt.Sprintf(format, args...)})
	}

	for _, key := range v.actions.MandatoryColumns() {
		if _, ok := step.Property(key); !ok {
			report(key, "mandatory column is missing")
		}
	}

	id, err := step.ActionID(v.actionColumn)
	if err != nil {
		if _, present := step.Property(v.actionColumn); present {
			report(v.actionColumn, "action selector is not an action id: %v", err)
		}
		return problems
	}
	def, err := v.actions.ByID(id)
	if err != nil {
		report(v.actionColumn, "action id %d is not in the catalog", id)
		return problems
	}

	for _, key := range step.Columns() {
		col, ok := def.Column(key)
		if !ok {
			report(key, "column is not declared by action %q", def.Name)
			continue
		}
		p, _ := step.Property(key)
		if p.TypeID() != col.TypeID {
			report(key, "holds type %q, action %q declares %q", p.TypeID(), def.Name, col.TypeID)
		}
	}
	for _, col := range def.Columns {
		if _, ok := step.Property(col.Key); !ok && !isMandatory(v.actions, col.Key) {
			report(col.Key, "column declared by action %q is missing", def.Name)
		}
	}
	if step.DeployDuration() != def.DeployDuration {
		report("", "deploy duration %s does not match action %q (%s)", step.DeployDuration(), def.Name, def.DeployDuration)
	}
	return problems
}

// isMandatory avoids reporting a missing mandatory column twice.
func isMandatory(repo action.Repository, key string) bool {
	for _, m := range repo.MandatoryColumns() {
		if m == key {
			return true
		}
	}
	return false
}
