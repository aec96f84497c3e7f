package testutil

import (
	"testing"

	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/stretchr/testify/require"
)

// Set is a column override applied by Step.
type Set struct {
	Key   string
	Value property.Value
}

// Step builds a default step of id and applies the overrides in order.
func (f *Fixture) Step(t *testing.T, id int16, overrides ...Set) recipe.Step {
	t.Helper()
	step, err := recipe.NewStep(f.Def(t, id))
	require.NoError(t, err)
	for _, o := range overrides {
		p, ok := step.Property(o.Key)
		require.True(t, ok, "action %d has no column %q", id, o.Key)
		next, err := p.WithValue(o.Value)
		require.NoError(t, err, "column %q", o.Key)
		step, err = step.With(o.Key, next)
		require.NoError(t, err)
	}
	return step
}

// Wait is a wait step of the given seconds.
func (f *Fixture) Wait(t *testing.T, seconds float32) recipe.Step {
	t.Helper()
	return f.Step(t, WaitID, Set{DurationColumn, property.Float32(seconds)})
}

// For opens a loop of n iterations.
func (f *Fixture) For(t *testing.T, n int16) recipe.Step {
	t.Helper()
	return f.Step(t, ForID, Set{IterationsColumn, property.Int16(n)})
}

// EndFor closes the innermost open loop.
func (f *Fixture) EndFor(t *testing.T) recipe.Step {
	t.Helper()
	return f.Step(t, EndForID)
}

// Recipe assembles steps into a recipe.
func Recipe(steps ...recipe.Step) recipe.Recipe {
	return recipe.New(steps...)
}
