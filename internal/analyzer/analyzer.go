// Package analyzer turns a recipe into a Snapshot by running structure
// validation, loop parsing and timing in that order. Analyze never fails: a
// malformed recipe yields a snapshot whose validity and flags describe what
// is wrong.
package analyzer

import (
	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/loop"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/structure"
	"github.com/specialistvlad/recipegrid/internal/timing"
)

// Analyzer holds the stages for one catalog.
type Analyzer struct {
	validator *structure.Validator
	loops     *loop.Parser
	timing    *timing.Calculator
}

// New creates an Analyzer over repo.
func New(repo action.Repository, cfg Config) *Analyzer {
	return &Analyzer{
		validator: structure.New(repo, cfg.ActionColumn),
		loops: loop.NewParser(repo, loop.Config{
			ActionColumn:    cfg.ActionColumn,
			IterationColumn: cfg.IterationColumn,
			MaxDepth:        cfg.MaxLoopDepth,
		}),
		timing: timing.NewCalculator(cfg.DurationColumn),
	}
}

// Analyze produces the snapshot of r.
func (a *Analyzer) Analyze(r recipe.Recipe) *Snapshot {
	problems := a.validator.Validate(r)
	parsed := a.loops.Parse(r)
	problems = append(problems, parsed.TooDeep...)
	timed := a.timing.Calculate(r, parsed.Tree, parsed.IntegrityCompromised)

	return &Snapshot{
		recipe:        r,
		valid:         len(problems) == 0,
		startTimes:    timed.StartTimes,
		contributions: timed.Contributions,
		total:         timed.Total,
		loops:         timed.Tree,
		flags: Flags{
			LoopIntegrityCompromised: parsed.IntegrityCompromised,
			NestingTooDeep:           len(parsed.TooDeep) > 0,
		},
		structural: problems,
	}
}
