package action

import (
	"testing"

	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectorType = &property.TypeDefinition{ID: "action", Kind: property.KindInteger16}

func testDef(t *testing.T, id int16, name string, role ServiceRole) *Definition {
	t.Helper()
	p, err := property.New(property.Int16(id), selectorType)
	require.NoError(t, err)
	return &Definition{
		ID:      id,
		Name:    name,
		Service: role,
		Columns: []Column{{Key: "action", TypeID: "action", Default: p}},
	}
}

func TestNewCatalog_Lookups(t *testing.T) {
	t.Parallel()

	wait := testDef(t, 1, "wait", RoleWait)
	valve := testDef(t, 7, "valve", RoleNone)
	start := testDef(t, 3, "for", RoleFor)
	cat, err := NewCatalog([]*Definition{wait, valve, start}, []string{"action"})
	require.NoError(t, err)

	got, err := cat.ByID(7)
	require.NoError(t, err)
	assert.Same(t, valve, got)

	got, err = cat.ByName("wait")
	require.NoError(t, err)
	assert.Same(t, wait, got)

	got, err = cat.Service(RoleFor)
	require.NoError(t, err)
	assert.Same(t, start, got)

	_, err = cat.ByID(99)
	require.ErrorIs(t, err, errs.ErrUnknownAction)
	_, err = cat.ByName("nope")
	require.ErrorIs(t, err, errs.ErrUnknownAction)
	_, err = cat.Service(RoleEndFor)
	require.ErrorIs(t, err, errs.ErrUnknownAction)

	ids := []int16{}
	for _, d := range cat.All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int16{1, 3, 7}, ids)
	assert.Equal(t, []string{"action"}, cat.MandatoryColumns())
}

func TestNewCatalog_Rejects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		defs      func(t *testing.T) []*Definition
		mandatory []string
	}{
		{
			name: "duplicate id",
			defs: func(t *testing.T) []*Definition {
				return []*Definition{testDef(t, 1, "a", RoleNone), testDef(t, 1, "b", RoleNone)}
			},
		},
		{
			name: "duplicate name",
			defs: func(t *testing.T) []*Definition {
				return []*Definition{testDef(t, 1, "a", RoleNone), testDef(t, 2, "a", RoleNone)}
			},
		},
		{
			name: "duplicate service role",
			defs: func(t *testing.T) []*Definition {
				return []*Definition{testDef(t, 1, "a", RoleWait), testDef(t, 2, "b", RoleWait)}
			},
		},
		{
			name: "missing mandatory column",
			defs: func(t *testing.T) []*Definition {
				return []*Definition{testDef(t, 1, "a", RoleNone)}
			},
			mandatory: []string{"action", "comment"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCatalog(tc.defs(t), tc.mandatory)
			require.Error(t, err)
		})
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	for _, d := range []DeployDuration{Immediate, LongLasting} {
		got, ok := ParseDeployDuration(d.String())
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ParseDeployDuration("forever")
	assert.False(t, ok)

	for _, r := range []ServiceRole{RoleNone, RoleWait, RoleFor, RoleEndFor} {
		got, ok := ParseServiceRole(r.String())
		require.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok = ParseServiceRole("loop")
	assert.False(t, ok)
}

func TestDefinition_Column(t *testing.T) {
	t.Parallel()
	def := testDef(t, 1, "wait", RoleWait)

	col, ok := def.Column("action")
	require.True(t, ok)
	assert.Equal(t, "action", col.TypeID)
	assert.False(t, def.HasColumn("speed"))
}
