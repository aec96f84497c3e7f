// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package recipe

import (
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/property"
)

// Field is one column of a step under construction.
type Field struct {
	Key      string
	Property property.Property
}

// Step is one immutable row of a recipe.
type Step struct {
	columns []string
	props   map[string]property.Property
	deploy  action.DeployDuration
}

// NewStep builds a step of def with every column at its configured default.
func NewStep(def *action.Definition) (Step, error) {
	fields := make([]Field, 0, len(def.Columns))
	for _, c := range def.Columns {
		fields = append(fields, Field{Key: c.Key, Property: c.Default})
	}
	s, err := BuildStep(def.DeployDuration, fields...)
	if err != nil {
		return Step{}, fmt.Errorf("action %q: %w", def.Name, err)
	}
	return s, nil
}

// BuildStep assembles a step from explicit fields, in order. Duplicate keys
// and zero properties are rejected.
func BuildStep(deploy action.DeployDuration, fields ...Field) (Step, error) {
	s := Step{
		columns: make([]string, 0, len(fields)),
		props:   make(map[string]property.Property, len(fields)),
		deploy:  deploy,
	}
	for _, f := range fields {
		if f.Property.IsZero() {
			return Step{}, fmt.Errorf("%w: column %q has no value", errs.ErrStructural, f.Key)
		}
		if _, exists := s.props[f.Key]; exists {
			return Step{}, fmt.Errorf("%w: duplicate column %q", errs.ErrStructural, f.Key)
		}
		s.columns = append(s.columns, f.Key)
		s.props[f.Key] = f.Property
	}
	return s, nil
}

// Property returns the property stored under key.
func (s Step) Property(key string) (property.Property, bool) {
	p, ok := s.props[key]
	return p, ok
}

// Columns returns the step's column keys in definition order.
func (s Step) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Len is the number of columns on the step.
func (s Step) Len() int { return len(s.columns) }

// DeployDuration returns the deploy duration class of the step's action.
func (s Step) DeployDuration() action.DeployDuration { return s.deploy }

// With returns a copy of s with key set to p. The column must already exist.
func (s Step) With(key string, p property.Property) (Step, error) {
	if _, ok := s.props[key]; !ok {
		return Step{}, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, key)
	}
	if p.IsZero() {
		return Step{}, fmt.Errorf("%w: column %q has no value", errs.ErrStructural, key)
	}
	props := make(map[string]property.Property, len(s.props))
	for k, v := range s.props {
		props[k] = v
	}
	props[key] = p
	return Step{columns: s.columns, props: props, deploy: s.deploy}, nil
}

// ActionID reads the action selector stored under column.
func (s Step) ActionID(column string) (int16, error) {
	p, ok := s.props[column]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, column)
	}
	return property.Get[int16](p)
}
