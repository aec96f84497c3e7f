package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/recipegrid/internal/analyzer"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/style"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <recipe.hcl>",
		Short: "Analyze a recipe and print its timeline",
		Long: `Analyze a recipe against the catalog and print every step with its start
time, its own duration and its loop nesting, followed by the total duration.

Exits with status 1 when the recipe has structural errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			snap, err := a.OpenRecipe(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTimeline(snap, a.ActionName, a.Comment))
			fmt.Fprintf(out, "\n  Total duration: %s\n", style.Bold.Render(snap.TotalDuration().String()))

			if snap.Flags().LoopIntegrityCompromised {
				fmt.Fprintf(out, "%s Loop integrity compromised: repetition ignored in the total\n", style.WarningPrefix)
			}
			for _, problem := range snap.StructuralErrors() {
				fmt.Fprintf(out, "%s %v\n", style.ErrorPrefix, problem)
			}
			if !snap.IsValid() {
				return &ExitError{Code: 1}
			}
			fmt.Fprintf(out, "%s Recipe is valid\n", style.SuccessPrefix)
			return nil
		},
	}
}

// renderTimeline lays out one row per step.
func renderTimeline(snap *analyzer.Snapshot, actionName, comment func(recipe.Step) string) string {
	t := style.NewTable("#", "START", "DURATION", "ACTION", "LOOPS", "COMMENT")
	for i, step := range snap.Recipe().Steps() {
		start, _ := snap.StepStartTime(i)
		dur, _ := snap.StepDuration(i)
		var loops []string
		for _, n := range snap.EnclosingLoops(i) {
			loops = append(loops, fmt.Sprintf("x%d", n.Iterations))
		}
		t.AddRow(
			strconv.Itoa(i),
			start.String(),
			dur.String(),
			actionName(step),
			strings.Join(loops, " "),
			comment(step),
		)
	}
	return t.Render()
}
