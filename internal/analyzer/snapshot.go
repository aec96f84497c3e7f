package analyzer

import (
	"fmt"
	"time"

	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/loop"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/timing"
)

// Flags surfaces problems that degrade the analysis without invalidating it.
type Flags struct {
	LoopIntegrityCompromised bool
	NestingTooDeep           bool
}

// Snapshot is the fully analyzed, read-only view of one recipe.
type Snapshot struct {
	recipe        recipe.Recipe
	valid         bool
	startTimes    []time.Duration
	contributions []time.Duration
	total         time.Duration
	loops         loop.Tree
	flags         Flags
	structural    []error
}

// Recipe returns the analyzed recipe.
func (s *Snapshot) Recipe() recipe.Recipe { return s.recipe }

// StepCount returns the number of steps.
func (s *Snapshot) StepCount() int { return s.recipe.Len() }

// IsValid reports whether structure validation found no errors.
func (s *Snapshot) IsValid() bool { return s.valid }

// StepStartTime returns when step i begins, single pass.
func (s *Snapshot) StepStartTime(i int) (time.Duration, bool) {
	if i < 0 || i >= len(s.startTimes) {
		return 0, false
	}
	return s.startTimes[i], true
}

// StepStartTimes returns the start time of every step.
func (s *Snapshot) StepStartTimes() []time.Duration {
	return append([]time.Duration(nil), s.startTimes...)
}

// StepDuration returns the time step i itself occupies.
func (s *Snapshot) StepDuration(i int) (time.Duration, bool) {
	if i < 0 || i >= len(s.contributions) {
		return 0, false
	}
	return s.contributions[i], true
}

// TotalDuration returns the recipe duration with loop repetition applied.
func (s *Snapshot) TotalDuration() time.Duration { return s.total }

// LoopTree returns a copy of the loop tree with single iteration durations.
func (s *Snapshot) LoopTree() loop.Tree { return s.loops.Clone() }

// EnclosingLoops returns copies of the loops containing step i, outermost
// first.
func (s *Snapshot) EnclosingLoops(i int) []*loop.Node { return s.loops.Clone().EnclosingLoops(i) }

// Flags returns the analysis flags.
func (s *Snapshot) Flags() Flags { return s.flags }

// StructuralErrors returns every structural problem found.
func (s *Snapshot) StructuralErrors() []error {
	return append([]error(nil), s.structural...)
}

// ElapsedAt reports the elapsed recipe time while step i runs, given the
// completed iterations of each enclosing loop (outermost first) and the time
// already spent within the step.
func (s *Snapshot) ElapsedAt(i int, completed []int, within time.Duration) (time.Duration, error) {
	start, ok := s.StepStartTime(i)
	if !ok {
		return 0, fmt.Errorf("%w: step %d of %d", errs.ErrIndexOutOfRange, i, s.StepCount())
	}
	if s.flags.LoopIntegrityCompromised {
		return start + within, nil
	}
	return timing.Elapsed(start, s.loops.EnclosingLoops(i), completed, within), nil
}
