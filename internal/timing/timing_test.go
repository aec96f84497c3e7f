package timing

import (
	"testing"
	"time"

	"github.com/specialistvlad/recipegrid/internal/loop"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculate(t *testing.T, fx *testutil.Fixture, r recipe.Recipe) Result {
	t.Helper()
	parsed := loop.NewParser(fx.Actions, loop.Config{
		ActionColumn:    testutil.ActionColumn,
		IterationColumn: testutil.IterationsColumn,
		MaxDepth:        3,
	}).Parse(r)
	return NewCalculator(testutil.DurationColumn).Calculate(r, parsed.Tree, parsed.IntegrityCompromised)
}

func seconds(d ...float64) []time.Duration {
	out := make([]time.Duration, len(d))
	for i, s := range d {
		out[i] = time.Duration(s * float64(time.Second))
	}
	return out
}

func TestCalculate_Linear(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)

	r := testutil.Recipe(
		fx.Wait(t, 10),
		fx.Step(t, testutil.OpenValveID),
		fx.Wait(t, 2.5),
		fx.Step(t, testutil.CloseValveID),
	)

	res := calculate(t, fx, r)

	assert.Equal(t, seconds(0, 10, 10, 12.5), res.StartTimes)
	assert.Equal(t, seconds(10, 0, 2.5, 0), res.Contributions, "immediate actions take no time")
	assert.Equal(t, 12500*time.Millisecond, res.Total)
}

func TestCalculate_Loops(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)

	r := testutil.Recipe(
		fx.Wait(t, 5), // 0
		fx.For(t, 3),  // 1
		fx.Wait(t, 1), // 2
		fx.For(t, 2),  // 3
		fx.Wait(t, 2), // 4
		fx.EndFor(t),  // 5
		fx.EndFor(t),  // 6
		fx.Wait(t, 4), // 7
	)

	res := calculate(t, fx, r)

	assert.Equal(t, seconds(0, 5, 5, 6, 6, 8, 8, 8), res.StartTimes, "start times are single pass")
	// 5 + 3 x (1 + 2 x 2) + 4
	assert.Equal(t, 24*time.Second, res.Total)
	require.Len(t, res.Tree.Roots, 1)
	assert.Equal(t, 5*time.Second, res.Tree.Roots[0].SingleIterationDuration)
	assert.Equal(t, 4*time.Second, res.Tree.Roots[0].Children[0].SingleIterationDuration)
}

func TestCalculate_CompromisedIgnoresRepetition(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)

	r := testutil.Recipe(
		fx.For(t, 3),
		fx.Wait(t, 2),
		fx.EndFor(t),
		fx.EndFor(t),
		fx.Wait(t, 1),
	)

	res := calculate(t, fx, r)

	assert.Equal(t, 3*time.Second, res.Total)
}

func TestCalculate_EmptyLoop(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)

	res := calculate(t, fx, testutil.Recipe(fx.For(t, 100), fx.EndFor(t), fx.Wait(t, 1)))

	assert.Equal(t, time.Second, res.Total)
}

func TestCalculate_FractionalSeconds(t *testing.T) {
	t.Parallel()
	fx := testutil.Catalog(t)
	step := fx.Step(t, testutil.WaitID, testutil.Set{Key: testutil.DurationColumn, Value: property.Float32(0.25)})

	res := calculate(t, fx, testutil.Recipe(step))

	assert.Equal(t, 250*time.Millisecond, res.Total)
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	outer := &loop.Node{SingleIterationDuration: 5 * time.Second}
	inner := &loop.Node{SingleIterationDuration: 2 * time.Second}

	testCases := []struct {
		name      string
		completed []int
		want      time.Duration
	}{
		{name: "first pass", completed: nil, want: 1500 * time.Millisecond},
		{name: "outer pass done", completed: []int{1}, want: 6500 * time.Millisecond},
		{name: "both passes done", completed: []int{1, 1}, want: 8500 * time.Millisecond},
		{name: "extra counts ignored", completed: []int{2, 1, 9}, want: 13500 * time.Millisecond},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Elapsed(time.Second, []*loop.Node{outer, inner}, tc.completed, 500*time.Millisecond)
			assert.Equal(t, tc.want, got)
		})
	}
}
