// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package property

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/recipegrid/internal/errs"
)

// Registry maps property type ids to their definitions.
type Registry struct {
	defs map[string]*TypeDefinition
}

// NewRegistry creates a registry holding defs. Duplicate or empty ids are rejected.
func NewRegistry(defs ...*TypeDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*TypeDefinition, len(defs))}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a copy of d.
func (r *Registry) Register(d *TypeDefinition) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("property type definition must have an id")
	}
	if d.Kind == KindInvalid {
		return fmt.Errorf("property type %q has no kind", d.ID)
	}
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("property type %q already registered", d.ID)
	}
	r.defs[d.ID] = d.Clone()
	return nil
}

// Lookup returns a copy of the definition for id.
func (r *Registry) Lookup(id string) (*TypeDefinition, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownPropertyType, id)
	}
	return d.Clone(), nil
}

// IDs returns all registered type ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
