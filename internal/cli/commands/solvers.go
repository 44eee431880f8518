package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// NewSolversCommand creates the solvers command.
func NewSolversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List the available solvers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer
			names := solver.List()

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"solvers": names, "default": cmdCtx.Cfg.Solver})
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				mark := ""
				if name == cmdCtx.Cfg.Solver {
					mark = "yes"
				}
				rows = append(rows, []string{name, mark, cmdCtx.Cfg.ExeFor(name)})
			}
			r.Header(1, "Solvers")
			r.Table([]string{"Name", "Selected", "Executable"}, rows)
			return nil
		},
	}
}
