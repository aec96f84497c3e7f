// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package action defines the catalog entries a recipe step is an instance of.
//
// An action is to a step what a function definition is to a call: it declares
// the columns a step of that action carries, their types and defaults, whether
// the action occupies time on the timeline, and optionally a formula that ties
// several of those columns together. Steps are validated and rebuilt against
// these definitions, never the other way around.
package action

import (
	"github.com/specialistvlad/recipegrid/internal/property"
)

// DeployDuration tells whether an action's effect is instantaneous or takes
// time on the timeline.
type DeployDuration int

const (
	Immediate DeployDuration = iota
	LongLasting
)

// String returns the catalog keyword.
func (d DeployDuration) String() string {
	if d == LongLasting {
		return "long_lasting"
	}
	return "immediate"
}

// ParseDeployDuration maps a catalog keyword to a DeployDuration.
func ParseDeployDuration(s string) (DeployDuration, bool) {
	switch s {
	case "immediate":
		return Immediate, true
	case "long_lasting":
		return LongLasting, true
	default:
		return Immediate, false
	}
}

// ServiceRole marks the handful of actions the engine itself relies on.
type ServiceRole int

const (
	RoleNone ServiceRole = iota
	RoleWait
	RoleFor
	RoleEndFor
)

// String returns the catalog keyword.
func (r ServiceRole) String() string {
	switch r {
	case RoleWait:
		return "wait"
	case RoleFor:
		return "for"
	case RoleEndFor:
		return "end_for"
	default:
		return ""
	}
}

// ParseServiceRole maps a catalog keyword to a ServiceRole. The empty string is RoleNone.
func ParseServiceRole(s string) (ServiceRole, bool) {
	switch s {
	case "":
		return RoleNone, true
	case "wait":
		return RoleWait, true
	case "for":
		return RoleFor, true
	case "end_for":
		return RoleEndFor, true
	default:
		return RoleNone, false
	}
}

// Column is one parameter slot of an action.
type Column struct {
	Key     string
	TypeID  string
	Group   string
	Default property.Property
}

// Formula is an equation over column keys, e.g. "final = initial + speed * step_duration",
// plus the order in which unknowns are preferred when re-solving it.
type Formula struct {
	Expression  string
	RecalcOrder []string
}

// Definition is a single catalog entry.
type Definition struct {
	ID             int16
	Name           string
	DeployDuration DeployDuration
	Service        ServiceRole
	Columns        []Column
	Formula        *Formula
}

// Column returns the column with the given key.
func (d *Definition) Column(key string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether key is one of the action's columns.
func (d *Definition) HasColumn(key string) bool {
	_, ok := d.Column(key)
	return ok
}
