package cli

import (
	"github.com/spf13/cobra"
)

func newFmtCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <recipe.hcl>",
		Short: "Rewrite a recipe in canonical form on stdout",
		Long: `Read a recipe, validate every value against the catalog and write it back
with every column spelled out, in catalog column order.`,
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
			return a.Codec().Write(cmd.OutOrStdout(), snap.Recipe())
		},
	}
}
