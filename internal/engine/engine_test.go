package engine

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/analyzer"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func newTestEngine(t *testing.T) (*Engine, *testutil.Fixture) {
	t.Helper()
	fx := testutil.Catalog(t)
	e, err := New(fx.Actions, fx.Properties)
	require.NoError(t, err)
	return e, fx
}

// rampEngine holds a single default temperature ramp step.
func rampEngine(t *testing.T) *Engine {
	t.Helper()
	e, fx := newTestEngine(t)
	_, err := e.LoadRecipe(testutil.Recipe(fx.Step(t, testutil.RampID)))
	require.NoError(t, err)
	return e
}

func value(t *testing.T, snap *analyzer.Snapshot, index int, column string) property.Value {
	t.Helper()
	step, err := snap.Recipe().Step(index)
	require.NoError(t, err)
	p, ok := step.Property(column)
	require.True(t, ok, "column %q", column)
	return p.Value()
}

func TestNew(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)

	e, err := New(fx.Actions, fx.Properties)
	require.NoError(t, err)
	snap := e.CurrentSnapshot()
	assert.Equal(t, 0, snap.StepCount())
	assert.True(t, snap.IsValid())
	last, ok := e.LastValidSnapshot()
	require.True(t, ok)
	assert.Same(t, snap, last)

	_, err = New(nil, fx.Properties)
	require.Error(t, err)

	bad := analyzer.DefaultConfig()
	bad.MaxLoopDepth = 0
	_, err = New(fx.Actions, fx.Properties, WithConfig(bad))
	require.Error(t, err)
}

func TestFormula_RampSpeedRecalculatesDuration(t *testing.T) {
	t.Parallel()
	e := rampEngine(t)
	require.Equal(t, 600*time.Second, e.CurrentSnapshot().TotalDuration())

	snap, err := e.UpdateProperty(0, "speed", property.Float32(20))

	require.NoError(t, err)
	assert.Equal(t, property.Float32(300), value(t, snap, 0, testutil.DurationColumn))
	assert.Equal(t, 300*time.Second, snap.TotalDuration())
	assert.Same(t, snap, e.CurrentSnapshot())
}

func TestFormula_DivisionByZeroRejected(t *testing.T) {
	t.Parallel()
	e := rampEngine(t)
	before := e.CurrentSnapshot()

	snap, err := e.UpdateProperty(0, "speed", property.Float32(0))

	require.ErrorIs(t, err, errs.ErrCalculation)
	assert.Nil(t, snap)
	assert.Same(t, before, e.CurrentSnapshot())
	assert.Equal(t, property.Float32(10), value(t, e.CurrentSnapshot(), 0, "speed"))
}

func TestIdempotentReentry(t *testing.T) {
	t.Parallel()
	e := rampEngine(t)
	before := e.CurrentSnapshot()
	speed := value(t, before, 0, "speed")

	after, err := e.UpdateProperty(0, "speed", property.Text(speed.String()))

	require.NoError(t, err)
	if diff := cmp.Diff(before, after, exportAll); diff != "" {
		t.Errorf("re-entering the current value changed the snapshot (-before +after):\n%s", diff)
	}
}

func TestIdempotentReentry_FormattedText(t *testing.T) {
	t.Parallel()
	e := rampEngine(t)
	before := e.CurrentSnapshot()
	step, err := before.Recipe().Step(0)
	require.NoError(t, err)

	for _, column := range []string{"speed", "initial", "final", testutil.DurationColumn} {
		p, ok := step.Property(column)
		require.True(t, ok)

		after, err := e.UpdateProperty(0, column, property.Text(p.Format()))

		require.NoError(t, err, "column %q formatted as %q", column, p.Format())
		assert.Equal(t, before.TotalDuration(), after.TotalDuration())
		assert.Equal(t, p.Value(), value(t, after, 0, column))
	}
}

func TestNonFormulaIsolation(t *testing.T) {
	t.Parallel()
	e := rampEngine(t)
	_, err := e.UpdateProperty(0, "speed", property.Float32(20))
	require.NoError(t, err)

	snap, err := e.UpdateProperty(0, testutil.CommentColumn, property.Text("hold at 600"))

	require.NoError(t, err)
	assert.Equal(t, property.Float32(300), value(t, snap, 0, testutil.DurationColumn))
	assert.Equal(t, property.Text("hold at 600"), value(t, snap, 0, testutil.CommentColumn))
}

func TestIndexBounds(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)
	_, err := e.AddStep(0)
	require.NoError(t, err)
	before := e.CurrentSnapshot()

	_, err = e.RemoveStep(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = e.RemoveStep(1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = e.UpdateProperty(5, testutil.DurationColumn, property.Float32(1))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = e.ReplaceAction(1, testutil.WaitID)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = e.AddStep(3)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	assert.Same(t, before, e.CurrentSnapshot())
}

func TestStructuralInsertion(t *testing.T) {
	t.Parallel()
	e, fx := newTestEngine(t)
	_, err := e.LoadRecipe(testutil.Recipe(fx.Step(t, testutil.OpenValveID)))
	require.NoError(t, err)

	_, err = e.AddStep(0)
	require.NoError(t, err)
	snap, err := e.AddStep(0)
	require.NoError(t, err)

	start, ok := snap.StepStartTime(2)
	require.True(t, ok)
	assert.Equal(t, 20*time.Second, start)

	snap, err = e.RemoveStep(1)
	require.NoError(t, err)
	start, ok = snap.StepStartTime(1)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, start)
}

func TestDeployDurationEffect(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)
	_, err := e.AddStep(0)
	require.NoError(t, err)
	snap, err := e.UpdateProperty(0, testutil.DurationColumn, property.Float32(12))
	require.NoError(t, err)
	require.Equal(t, 12*time.Second, snap.TotalDuration())

	snap, err = e.ReplaceAction(0, testutil.OpenValveID)

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), snap.TotalDuration())
	step, _ := snap.Recipe().Step(0)
	assert.Equal(t, action.Immediate, step.DeployDuration())
}

func TestTypeMismatchLeavesSnapshot(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)
	_, err := e.AddStep(0)
	require.NoError(t, err)
	before := e.CurrentSnapshot()

	_, err = e.UpdateProperty(0, testutil.DurationColumn, property.Text("ten seconds"))
	require.ErrorIs(t, err, errs.ErrConversionFailed)
	_, err = e.UpdateProperty(0, testutil.DurationColumn, property.Int16(10))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	_, err = e.UpdateProperty(0, "speed", property.Float32(1))
	require.ErrorIs(t, err, errs.ErrColumnNotFound)

	assert.Same(t, before, e.CurrentSnapshot())
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	run := func() *analyzer.Snapshot {
		e, fx := newTestEngine(t)
		_, err := e.LoadRecipe(testutil.Recipe(
			fx.For(t, 2),
			fx.Step(t, testutil.RampID),
			fx.EndFor(t),
		))
		require.NoError(t, err)
		_, err = e.AddStep(1)
		require.NoError(t, err)
		snap, err := e.UpdateProperty(2, "speed", property.Text("15"))
		require.NoError(t, err)
		return snap
	}

	first, second := run(), run()

	if diff := cmp.Diff(first, second, exportAll); diff != "" {
		t.Errorf("same edits produced different snapshots (-first +second):\n%s", diff)
	}
	assert.Equal(t, 2*(10*time.Second+400*time.Second), first.TotalDuration())
}

func TestUpdateProperty_ActionColumn(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)
	_, err := e.AddStep(0)
	require.NoError(t, err)
	_, err = e.UpdateProperty(0, testutil.CommentColumn, property.Text("note"))
	require.NoError(t, err)

	t.Run("same id keeps the step", func(t *testing.T) {
		snap, err := e.UpdateProperty(0, testutil.ActionColumn, property.Text("1"))
		require.NoError(t, err)
		assert.Equal(t, property.Text("note"), value(t, snap, 0, testutil.CommentColumn))
	})

	t.Run("new id replaces the action", func(t *testing.T) {
		snap, err := e.UpdateProperty(0, testutil.ActionColumn, property.Int16(testutil.RampID))
		require.NoError(t, err)
		assert.Equal(t, property.Float32(600), value(t, snap, 0, testutil.DurationColumn))
		assert.Equal(t, property.Text("note"), value(t, snap, 0, testutil.CommentColumn), "shared columns survive the action change")
		assert.Equal(t, 600*time.Second, snap.TotalDuration())
	})

	t.Run("unknown id is rejected", func(t *testing.T) {
		before := e.CurrentSnapshot()
		_, err := e.UpdateProperty(0, testutil.ActionColumn, property.Int16(42))
		require.ErrorIs(t, err, errs.ErrUnknownAction)
		assert.Same(t, before, e.CurrentSnapshot())
	})
}

func TestLastValidSnapshot(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)
	cfg := analyzer.DefaultConfig()
	cfg.MaxLoopDepth = 1
	e, err := New(fx.Actions, fx.Properties, WithConfig(cfg))
	require.NoError(t, err)

	valid, err := e.LoadRecipe(testutil.Recipe(fx.For(t, 2), fx.Wait(t, 1), fx.EndFor(t)))
	require.NoError(t, err)
	require.True(t, valid.IsValid())

	invalid, err := e.LoadRecipe(testutil.Recipe(fx.For(t, 2), fx.For(t, 2), fx.EndFor(t), fx.EndFor(t)))
	require.NoError(t, err, "an invalid recipe is still committed")
	assert.False(t, invalid.IsValid())

	assert.Same(t, invalid, e.CurrentSnapshot())
	last, ok := e.LastValidSnapshot()
	require.True(t, ok)
	assert.Same(t, valid, last)
}

func TestLoadRecipe_Rejects(t *testing.T) {
	t.Parallel()
	e, fx := newTestEngine(t)
	before := e.CurrentSnapshot()

	ghost, err := property.New(property.Int16(1), &property.TypeDefinition{ID: "ghost", Kind: property.KindInteger16})
	require.NoError(t, err)
	fields := []recipe.Field{}
	for _, c := range fx.Def(t, testutil.OpenValveID).Columns {
		if c.Key == "valve" {
			fields = append(fields, recipe.Field{Key: c.Key, Property: ghost})
			continue
		}
		fields = append(fields, recipe.Field{Key: c.Key, Property: c.Default})
	}
	step, err := recipe.BuildStep(action.Immediate, fields...)
	require.NoError(t, err)

	_, err = e.LoadRecipe(testutil.Recipe(fx.Wait(t, 1), step))

	require.ErrorIs(t, err, errs.ErrUnknownPropertyType)
	assert.Same(t, before, e.CurrentSnapshot())
}

func TestLogging(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := New(fx.Actions, fx.Properties, WithLogger(logger))
	require.NoError(t, err)

	_, err = e.AddStep(0)
	require.NoError(t, err)
	_, err = e.RemoveStep(4)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Committed recipe snapshot.")
	assert.Contains(t, out, "op=add_step")
	assert.Contains(t, out, "Recipe operation aborted.")
	assert.Contains(t, out, "op=remove_step")
}
