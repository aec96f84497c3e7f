package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/recipegrid/internal/style"
)

func newActionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the actions in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			t := style.NewTable("ID", "NAME", "DEPLOY", "SERVICE", "COLUMNS", "FORMULA")
			for _, def := range a.Catalog().Actions.All() {
				cols := make([]string, 0, len(def.Columns))
				for _, c := range def.Columns {
					cols = append(cols, c.Key)
				}
				formula := ""
				if def.Formula != nil {
					formula = def.Formula.Expression
				}
				t.AddRow(
					strconv.Itoa(int(def.ID)),
					def.Name,
					def.DeployDuration.String(),
					def.Service.String(),
					strings.Join(cols, ","),
					formula,
				)
			}
			fmt.Fprint(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
