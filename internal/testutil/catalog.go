// Package testutil provides the fixture catalog and step helpers shared by the
// package tests.
package testutil

import (
	"testing"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/stretchr/testify/require"
)

// Action ids of the fixture catalog.
const (
	WaitID       int16 = 1
	ForID        int16 = 2
	EndForID     int16 = 3
	RampID       int16 = 4
	OpenValveID  int16 = 5
	CloseValveID int16 = 6
)

// Column keys of the fixture catalog.
const (
	ActionColumn     = "action"
	DurationColumn   = "step_duration"
	CommentColumn    = "comment"
	IterationsColumn = "iterations"
)

// RampFormula keeps a temperature ramp's duration consistent with its span
// and speed, where speed is in degrees per ten seconds.
const RampFormula = "step_duration = (final - initial) * 10 / speed"

// CatalogHCL is the HCL rendition of the fixture catalog built by Catalog.
const CatalogHCL = `
property_type "step_duration" {
  kind         = "float32"
  units        = "s"
  min          = 0
  max          = 86400
  non_negative = true
}

property_type "comment" {
  kind       = "text"
  max_length = 64
}

property_type "temperature" {
  kind  = "float32"
  units = "C"
  min   = -273
  max   = 2000
}

property_type "speed" {
  kind         = "float32"
  units        = "C/10s"
  min          = 0
  non_negative = true
}

property_type "iterations" {
  kind = "int16"
  min  = 1
}

property_type "valve" {
  kind = "int16"
  min  = 0
  max  = 64
}

common_column "step_duration" {
  type    = "step_duration"
  default = 10
}

common_column "comment" {
  type = "comment"
}

action "wait" {
  id              = 1
  deploy_duration = "long_lasting"
  service         = "wait"
}

action "for" {
  id      = 2
  service = "for"

  column "iterations" {
    type    = "iterations"
    default = 2
  }
}

action "end_for" {
  id      = 3
  service = "end_for"
}

action "temperature_ramp" {
  id              = 4
  deploy_duration = "long_lasting"

  column "step_duration" {
    type    = "step_duration"
    default = 600
  }

  column "initial" {
    type  = "temperature"
    group = "ramp"
  }

  column "final" {
    type    = "temperature"
    group   = "ramp"
    default = 600
  }

  column "speed" {
    type    = "speed"
    group   = "ramp"
    default = 10
  }

  formula {
    expression   = "step_duration = (final - initial) * 10 / speed"
    recalc_order = ["step_duration", "speed"]
  }
}

action "open_valve" {
  id = 5

  column "valve" {
    type    = "valve"
    default = 1
  }
}

action "close_valve" {
  id = 6

  column "valve" {
    type    = "valve"
    default = 1
  }
}
`

// Fixture is the fixture catalog together with its property registry.
type Fixture struct {
	Actions    *action.Catalog
	Properties *property.Registry
}

// Def returns the action with the given id, failing the test if it is absent.
func (f *Fixture) Def(t *testing.T, id int16) *action.Definition {
	t.Helper()
	def, err := f.Actions.ByID(id)
	require.NoError(t, err)
	return def
}

// Type returns the property type with the given id.
func (f *Fixture) Type(t *testing.T, id string) *property.TypeDefinition {
	t.Helper()
	td, err := f.Properties.Lookup(id)
	require.NoError(t, err)
	return td
}

// Catalog builds the fixture catalog in code. It matches CatalogHCL loaded
// with ActionColumn as the selector column.
func Catalog(t *testing.T) *Fixture {
	t.Helper()

	types := map[string]*property.TypeDefinition{
		"action":        {ID: "action", Kind: property.KindInteger16, Min: ptr(0)},
		"step_duration": {ID: "step_duration", Kind: property.KindFloat32, Units: "s", Min: ptr(0), Max: ptr(86400), NonNegative: true},
		"comment":       {ID: "comment", Kind: property.KindText, MaxLength: 64},
		"temperature":   {ID: "temperature", Kind: property.KindFloat32, Units: "C", Min: ptr(-273), Max: ptr(2000)},
		"speed":         {ID: "speed", Kind: property.KindFloat32, Units: "C/10s", Min: ptr(0), NonNegative: true},
		"iterations":    {ID: "iterations", Kind: property.KindInteger16, Min: ptr(1)},
		"valve":         {ID: "valve", Kind: property.KindInteger16, Min: ptr(0), Max: ptr(64)},
	}
	defs := make([]*property.TypeDefinition, 0, len(types))
	for _, td := range types {
		defs = append(defs, td)
	}
	reg, err := property.NewRegistry(defs...)
	require.NoError(t, err)

	col := func(key, typeID, group string, v property.Value) action.Column {
		t.Helper()
		p, err := property.New(v, types[typeID])
		require.NoError(t, err, "default for %q", key)
		return action.Column{Key: key, TypeID: typeID, Group: group, Default: p}
	}
	base := func(id int16, duration float32) []action.Column {
		return []action.Column{
			col(ActionColumn, "action", "", property.Int16(id)),
			col(DurationColumn, "step_duration", "", property.Float32(duration)),
			col(CommentColumn, "comment", "", property.Text("")),
		}
	}

	actions := []*action.Definition{
		{
			ID: WaitID, Name: "wait",
			DeployDuration: action.LongLasting, Service: action.RoleWait,
			Columns: base(WaitID, 10),
		},
		{
			ID: ForID, Name: "for", Service: action.RoleFor,
			Columns: append(base(ForID, 10), col(IterationsColumn, "iterations", "", property.Int16(2))),
		},
		{
			ID: EndForID, Name: "end_for", Service: action.RoleEndFor,
			Columns: base(EndForID, 10),
		},
		{
			ID: RampID, Name: "temperature_ramp", DeployDuration: action.LongLasting,
			Columns: append(base(RampID, 600),
				col("initial", "temperature", "ramp", property.Float32(0)),
				col("final", "temperature", "ramp", property.Float32(600)),
				col("speed", "speed", "ramp", property.Float32(10)),
			),
			Formula: &action.Formula{Expression: RampFormula, RecalcOrder: []string{DurationColumn, "speed"}},
		},
		{
			ID: OpenValveID, Name: "open_valve",
			Columns: append(base(OpenValveID, 10), col("valve", "valve", "", property.Int16(1))),
		},
		{
			ID: CloseValveID, Name: "close_valve",
			Columns: append(base(CloseValveID, 10), col("valve", "valve", "", property.Int16(1))),
		},
	}
	cat, err := action.NewCatalog(actions, []string{ActionColumn, DurationColumn, CommentColumn})
	require.NoError(t, err)
	return &Fixture{Actions: cat, Properties: reg}
}

func ptr(f float64) *float64 { return &f }
