// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package action

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/recipegrid/internal/errs"
)

// Repository resolves action definitions.
type Repository interface {
	ByID(id int16) (*Definition, error)
	ByName(name string) (*Definition, error)
	Service(role ServiceRole) (*Definition, error)
	// MandatoryColumns lists the column keys every step must carry.
	MandatoryColumns() []string
}

// Catalog is the in-memory Repository built once at startup.
type Catalog struct {
	byID      map[int16]*Definition
	byName    map[string]*Definition
	services  map[ServiceRole]*Definition
	mandatory []string
}

var _ Repository = (*Catalog)(nil)

// NewCatalog indexes defs. Duplicate ids, names or service roles are errors,
// as is an action missing one of the mandatory columns.
func NewCatalog(defs []*Definition, mandatory []string) (*Catalog, error) {
	c := &Catalog{
		byID:      make(map[int16]*Definition, len(defs)),
		byName:    make(map[string]*Definition, len(defs)),
		services:  make(map[ServiceRole]*Definition),
		mandatory: append([]string(nil), mandatory...),
	}
	for _, d := range defs {
		if _, exists := c.byID[d.ID]; exists {
			return nil, fmt.Errorf("action id %d already registered", d.ID)
		}
		if _, exists := c.byName[d.Name]; exists {
			return nil, fmt.Errorf("action name %q already registered", d.Name)
		}
		if d.Service != RoleNone {
			if prev, exists := c.services[d.Service]; exists {
				return nil, fmt.Errorf("service role %q claimed by both %q and %q", d.Service, prev.Name, d.Name)
			}
			c.services[d.Service] = d
		}
		for _, key := range mandatory {
			if !d.HasColumn(key) {
				return nil, fmt.Errorf("action %q is missing mandatory column %q", d.Name, key)
			}
		}
		c.byID[d.ID] = d
		c.byName[d.Name] = d
	}
	return c, nil
}

// ByID implements Repository.
func (c *Catalog) ByID(id int16) (*Definition, error) {
	d, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", errs.ErrUnknownAction, id)
	}
	return d, nil
}

// ByName implements Repository.
func (c *Catalog) ByName(name string) (*Definition, error) {
	d, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownAction, name)
	}
	return d, nil
}

// Service implements Repository.
func (c *Catalog) Service(role ServiceRole) (*Definition, error) {
	d, ok := c.services[role]
	if !ok {
		return nil, fmt.Errorf("%w: no %q service action", errs.ErrUnknownAction, role)
	}
	return d, nil
}

// MandatoryColumns implements Repository.
func (c *Catalog) MandatoryColumns() []string {
	return append([]string(nil), c.mandatory...)
}

// All returns every definition ordered by id.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.byID))
	for _, d := range c.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
