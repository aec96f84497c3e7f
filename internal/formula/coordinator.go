package formula

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/recipe"
)

// Coordinator applies an action's formula to a freshly edited step. It is
// safe for concurrent use; mu guards the equation cache.
type Coordinator struct {
	mu    sync.Mutex
	cache map[string]*Equation
}

// NewCoordinator creates a Coordinator with an empty equation cache.
func NewCoordinator() *Coordinator {
	return &Coordinator{cache: make(map[string]*Equation)}
}

// Compile returns the parsed equation for source, parsing it at most once.
func (c *Coordinator) Compile(source string) (*Equation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if eq, ok := c.cache[source]; ok {
		return eq, nil
	}
	eq, err := Parse(source)
	if err != nil {
		return nil, err
	}
	c.cache[source] = eq
	return eq, nil
}

// ApplyIfExists re-solves def's formula after trigger was edited on step.
//
// The step is returned unchanged when the action has no formula, when trigger
// is not part of it, when any formula column is missing or non-numeric, or
// when the recalculation order names no column other than trigger. Otherwise
// the first other column in the recalculation order is recomputed and stored
// through the same validation user input goes through.
func (c *Coordinator) ApplyIfExists(step recipe.Step, def *action.Definition, trigger string) (recipe.Step, error) {
	if def == nil || def.Formula == nil {
		return step, nil
	}
	eq, err := c.Compile(def.Formula.Expression)
	if err != nil {
		return recipe.Step{}, fmt.Errorf("action %q: %w", def.Name, err)
	}
	if !eq.Has(trigger) {
		return step, nil
	}

	bindings := make(map[string]float64, len(eq.vars))
	for _, name := range eq.vars {
		p, ok := step.Property(name)
		if !ok {
			return step, nil
		}
		n, ok := p.Number()
		if !ok {
			return step, nil
		}
		bindings[name] = n
	}

	target := solveTarget(def.Formula.RecalcOrder, trigger, eq)
	if target == "" {
		return step, nil
	}

	solved, err := eq.Solve(target, bindings)
	if err != nil {
		return recipe.Step{}, fmt.Errorf("action %q, solving %q: %w", def.Name, target, err)
	}

	current, _ := step.Property(target)
	value, err := current.Definition().FromNumber(solved)
	if err != nil {
		return recipe.Step{}, fmt.Errorf("action %q, column %q: %w", def.Name, target, err)
	}
	next, err := current.WithValue(value)
	if err != nil {
		return recipe.Step{}, fmt.Errorf("action %q, column %q: %w", def.Name, target, err)
	}
	return step.With(target, next)
}

// solveTarget picks the first column in order that is not trigger and is part
// of the equation.
func solveTarget(order []string, trigger string, eq *Equation) string {
	for _, key := range order {
		if key != trigger && eq.Has(key) {
			return key
		}
	}
	return ""
}

// Check verifies that def's formula parses, only references numeric columns
// of def, and has a recalculation order made of those columns.
func Check(def *action.Definition) error {
	if def.Formula == nil {
		return nil
	}
	eq, err := Parse(def.Formula.Expression)
	if err != nil {
		return err
	}
	for _, name := range eq.vars {
		col, ok := def.Column(name)
		if !ok {
			return fmt.Errorf("formula %q references unknown column %q", eq.source, name)
		}
		if _, numeric := col.Default.Number(); !numeric {
			return fmt.Errorf("formula %q references non-numeric column %q", eq.source, name)
		}
	}
	if len(def.Formula.RecalcOrder) == 0 {
		return fmt.Errorf("formula %q has an empty recalc_order", eq.source)
	}
	for _, key := range def.Formula.RecalcOrder {
		if !eq.Has(key) {
			return fmt.Errorf("recalc_order entry %q is not part of formula %q", key, eq.source)
		}
	}
	return nil
}
