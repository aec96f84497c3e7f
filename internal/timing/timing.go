// Package timing computes when each step of a recipe starts and how long the
// whole recipe runs.
//
// Start times are positional: they come from a single pass over the step list,
// so a loop body contributes once no matter how often it repeats. The total
// duration folds the repetition back in through the loop tree. When loop
// integrity is compromised the total ignores repetition altogether.
package timing

import (
	"math"
	"time"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/loop"
	"github.com/specialistvlad/recipegrid/internal/recipe"
)

// Result is the timing of one recipe.
type Result struct {
	// StartTimes[i] is the elapsed time before step i begins, single pass.
	StartTimes []time.Duration
	// Contributions[i] is the time step i itself occupies.
	Contributions []time.Duration
	Total         time.Duration
	// Tree is the input loop tree with single iteration durations filled in.
	Tree loop.Tree
}

// Calculator reads step durations from one column.
type Calculator struct {
	durationColumn string
}

// NewCalculator creates a Calculator reading durations, in seconds, from durationColumn.
func NewCalculator(durationColumn string) *Calculator {
	return &Calculator{durationColumn: durationColumn}
}

// Calculate times r using tree. compromised disables loop repetition.
func (c *Calculator) Calculate(r recipe.Recipe, tree loop.Tree, compromised bool) Result {
	steps := r.Steps()
	res := Result{
		StartTimes:    make([]time.Duration, len(steps)),
		Contributions: make([]time.Duration, len(steps)),
	}

	var elapsed time.Duration
	for i, step := range steps {
		res.StartTimes[i] = elapsed
		res.Contributions[i] = c.contribution(step)
		elapsed += res.Contributions[i]
	}

	res.Tree = tree.WithDurations(res.Contributions)
	if compromised {
		res.Total = elapsed
		return res
	}

	for i := 0; i < len(steps); i++ {
		if root := rootAt(res.Tree, i); root != nil {
			res.Total += root.SingleIterationDuration * time.Duration(root.Iterations)
			i = root.End
			continue
		}
		res.Total += res.Contributions[i]
	}
	return res
}

// contribution is the step's duration for long lasting actions and zero otherwise.
func (c *Calculator) contribution(step recipe.Step) time.Duration {
	if step.DeployDuration() != action.LongLasting {
		return 0
	}
	p, ok := step.Property(c.durationColumn)
	if !ok {
		return 0
	}
	seconds, ok := p.Number()
	if !ok || seconds <= 0 {
		return 0
	}
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

func rootAt(t loop.Tree, i int) *loop.Node {
	for _, n := range t.Roots {
		if n.Start == i {
			return n
		}
	}
	return nil
}

// Elapsed reports the elapsed recipe time while a step runs:
// the step's positional start, plus every completed iteration of each
// enclosing loop, plus the time spent in the current step so far.
// completed lists completed iteration counts for enclosing, outermost first;
// missing entries count as zero and extra ones are ignored.
func Elapsed(start time.Duration, enclosing []*loop.Node, completed []int, within time.Duration) time.Duration {
	total := start + within
	for i, n := range enclosing {
		if i >= len(completed) {
			break
		}
		total += time.Duration(completed[i]) * n.SingleIterationDuration
	}
	return total
}
