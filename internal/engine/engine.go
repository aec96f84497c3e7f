// Package engine is the single entry point for editing a recipe.
//
// Every operation runs the same pipeline to completion before returning:
// mutate the current recipe, recalculate formula-dependent columns, analyze
// the result and commit the new snapshot. A failure at any stage returns the
// error and leaves the committed state exactly as it was.
//
// An Engine is not safe for concurrent writers. Snapshots it returns are
// immutable and may be read from any goroutine.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/analyzer"
	"github.com/specialistvlad/recipegrid/internal/formula"
	"github.com/specialistvlad/recipegrid/internal/mutator"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/state"
)

// Engine sequences recipe edits.
type Engine struct {
	cfg      analyzer.Config
	actions  action.Repository
	props    *property.Registry
	mutator  *mutator.Mutator
	formulas *formula.Coordinator
	analyzer *analyzer.Analyzer
	state    *state.Manager
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the default column keys and loop limit.
func WithConfig(cfg analyzer.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the logger used for commit and abort records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine holding an empty recipe.
func New(actions action.Repository, props *property.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     analyzer.DefaultConfig(),
		actions: actions,
		props:   props,
	}
	if actions == nil || props == nil {
		return nil, errors.New("engine requires an action repository and a property registry")
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := analyzer.NewConfig(e.cfg); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e.mutator = mutator.New(actions, e.cfg.ActionColumn)
	e.formulas = formula.NewCoordinator()
	e.analyzer = analyzer.New(actions, e.cfg)
	e.state = state.New(e.analyzer.Analyze(recipe.New()))
	return e, nil
}

// Config returns the column keys and loop limit the engine runs with.
func (e *Engine) Config() analyzer.Config { return e.cfg }

// CurrentSnapshot returns the last committed snapshot.
func (e *Engine) CurrentSnapshot() *analyzer.Snapshot { return e.state.Current() }

// LastValidSnapshot returns the last committed snapshot that was valid.
func (e *Engine) LastValidSnapshot() (*analyzer.Snapshot, bool) { return e.state.LastValid() }

// AddStep inserts a default wait step at index.
func (e *Engine) AddStep(index int) (*analyzer.Snapshot, error) {
	next, err := e.mutator.AddDefaultStep(e.state.Current().Recipe(), index)
	if err != nil {
		return e.abort("add_step", index, err)
	}
	return e.commit("add_step", next), nil
}

// RemoveStep deletes the step at index.
func (e *Engine) RemoveStep(index int) (*analyzer.Snapshot, error) {
	next, err := e.mutator.RemoveStep(e.state.Current().Recipe(), index)
	if err != nil {
		return e.abort("remove_step", index, err)
	}
	return e.commit("remove_step", next), nil
}

// ReplaceAction rebuilds the step at index as a step of actionID.
func (e *Engine) ReplaceAction(index int, actionID int16) (*analyzer.Snapshot, error) {
	next, err := e.mutator.ReplaceStepAction(e.state.Current().Recipe(), index, actionID)
	if err != nil {
		return e.abort("replace_action", index, err)
	}
	return e.commit("replace_action", next), nil
}

// UpdateProperty sets column on the step at index and re-solves the step's
// formula with column as the edited variable.
func (e *Engine) UpdateProperty(index int, column string, value property.Value) (*analyzer.Snapshot, error) {
	current := e.state.Current().Recipe()
	step, err := current.Step(index)
	if err != nil {
		return e.abort("update_property", index, err)
	}
	id, err := step.ActionID(e.cfg.ActionColumn)
	if err != nil {
		return e.abort("update_property", index, err)
	}
	def, err := e.actions.ByID(id)
	if err != nil {
		return e.abort("update_property", index, err)
	}

	edited, err := mutator.SetProperty(step, column, value)
	if err != nil {
		return e.abort("update_property", index, err)
	}
	if column == e.cfg.ActionColumn {
		// A new action id means a new column set.
		newID, err := edited.ActionID(column)
		if err != nil {
			return e.abort("update_property", index, err)
		}
		if newID == id {
			return e.commit("update_property", current), nil
		}
		return e.ReplaceAction(index, newID)
	}
	edited, err = e.formulas.ApplyIfExists(edited, def, column)
	if err != nil {
		return e.abort("update_property", index, err)
	}

	next, err := current.Replace(index, edited)
	if err != nil {
		return e.abort("update_property", index, err)
	}
	return e.commit("update_property", next), nil
}

// LoadRecipe replaces the whole recipe, for example after an external reader
// deserialized one. Every property must belong to a registered type and hold
// a value that type accepts.
func (e *Engine) LoadRecipe(r recipe.Recipe) (*analyzer.Snapshot, error) {
	for i, step := range r.Steps() {
		for _, key := range step.Columns() {
			p, _ := step.Property(key)
			def, err := e.props.Lookup(p.TypeID())
			if err != nil {
				return e.abort("load_recipe", i, fmt.Errorf("column %q: %w", key, err))
			}
			if err := def.Validate(p.Value()); err != nil {
				return e.abort("load_recipe", i, fmt.Errorf("column %q: %w", key, err))
			}
		}
	}
	return e.commit("load_recipe", r), nil
}

func (e *Engine) commit(op string, r recipe.Recipe) *analyzer.Snapshot {
	snap := e.analyzer.Analyze(r)
	e.state.Update(snap)
	e.logger.Debug("Committed recipe snapshot.",
		"op", op,
		"steps", snap.StepCount(),
		"valid", snap.IsValid(),
		"total_duration", snap.TotalDuration(),
		"loop_integrity_compromised", snap.Flags().LoopIntegrityCompromised,
	)
	return snap
}

func (e *Engine) abort(op string, index int, err error) (*analyzer.Snapshot, error) {
	e.logger.Debug("Recipe operation aborted.", "op", op, "index", index, "error", err)
	return nil, fmt.Errorf("%s at %d: %w", op, index, err)
}
