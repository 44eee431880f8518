package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <model>",
		Short: "Summarise a structure",
		Long: `Load a model and print its nodes, elements, sets and analysis objects.

The model is a snapshot (.obj) or a YAML mesh, network or volume mesh.`,
		Example: `  leapfea summary bridge.yaml
  leapfea summary out/bridge.obj --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			s, err := loadStructure(args[0], cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"name":               s.Name(),
					"nodes":              s.NodeCount(),
					"elements":           s.ElementCount(),
					"sets":               len(s.Sets()),
					"materials":          len(s.Materials()),
					"sections":           len(s.Sections()),
					"element_properties": len(s.ElementProperties()),
					"displacements":      len(s.Displacements()),
					"loads":              len(s.Loads()),
					"steps":              len(s.Steps()),
					"steps_order":        s.StepsOrder(),
				})
			}
			return s.Summary(r.Writer())
		},
	}
}
