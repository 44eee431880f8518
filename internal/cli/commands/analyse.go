package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
	"github.com/leapstack-labs/leapfea/internal/engine"
	"github.com/leapstack-labs/leapfea/internal/state"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// NewAnalyseCommand creates the analyse command.
func NewAnalyseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyse <model>",
		Aliases: []string{"analyze"},
		Short:   "Write the solver input, run the analysis and extract results",
		Long: `Run the full pipeline on a model: write the solver input, execute the
solver and read the requested fields back. Each invocation is recorded
as a run in the state database together with its extracted results.

Under the student license the analysis always runs on one CPU.`,
		Example: `  # Analyse a mesh with the configured solver
  leapfea analyse bridge.yaml

  # Four CPUs, all steps, displacements and reactions
  leapfea analyse bridge.yaml --cpus 4 --steps all --fields u,rf

  # Run an explicit command instead of the solver executable
  leapfea analyse bridge.yaml --command "./solve.sh bridge.yaml"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyse(cmd, args[0])
		},
	}

	cmd.Flags().String("solver", "", "Solver to use (see 'leapfea solvers')")
	cmd.Flags().String("exe", "", "Solver executable")
	cmd.Flags().String("command", "", "Explicit command run through the shell")
	cmd.Flags().Int("cpus", 0, "Number of CPUs")
	cmd.Flags().String("license", "", "License tier (student|research)")
	cmd.Flags().Bool("cleanup", false, "Remove scratch files after a successful run")
	cmd.Flags().StringSlice("fields", nil, "Fields to extract (e.g. u,rf,s)")
	cmd.Flags().StringSlice("steps", nil, "Steps to extract (last|all|names)")
	cmd.Flags().Bool("save", false, "Save a snapshot of the structure before the run")
	cmd.Flags().String("path", "", "Output directory for solver files")

	return cmd
}

func runAnalyse(cmd *cobra.Command, file string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	s, err := loadStructure(file, cfg, logger)
	if err != nil {
		return err
	}
	defaultStepsOrder(s, logger)

	eng, err := createEngine(cfg, s, logger)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	fields := core.FieldsFromList(cfg.Fields)
	if len(fields) == 0 {
		return fmt.Errorf("no known fields in %v\nHint: use tags such as u, rf, s or sf", cfg.Fields)
	}

	run, err := eng.AnalyseAndExtract(cmd.Context(), cfg.Solver, fields, engine.PipelineOptions{
		Save: cfg.Save,
		Analyse: engine.AnalyseOptions{
			Exe:     cfg.ExeFor(cfg.Solver),
			Command: cfg.CommandFor(cfg.Solver),
			CPUs:    cfg.CPUs,
			License: cfg.LicenseTier(),
			Cleanup: cfg.Cleanup,
		},
		Steps: cfg.Steps,
	})
	if err != nil {
		return err
	}
	return renderRun(cmdCtx.Renderer, run, s.Results())
}

func renderRun(r *output.Renderer, run *state.Run, results core.Results) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"run": run, "results": results})
	}

	r.Header(1, "Run "+run.ID)
	r.KeyValue("model", run.Model)
	r.KeyValue("solver", run.Solver)
	r.KeyValue("status", run.Status)
	r.KeyValue("cpus", run.CPUs)
	r.KeyValue("license", run.License)
	if run.ExitCode != nil {
		r.KeyValue("exit code", *run.ExitCode)
	}
	if run.CompletedAt != nil {
		r.KeyValue("duration", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	r.Println()

	r.Header(2, "Results")
	r.Table([]string{"Step", "Category", "Field", "Count", "Min", "Max"}, resultOverview(results))
	r.Success(fmt.Sprintf("run %s %s", run.ID, run.Status))
	return nil
}

// resultOverview summarises each field table as count, min and max.
func resultOverview(results core.Results) [][]string {
	var rows [][]string
	for _, step := range results.Steps() {
		sr := results[step]
		for _, category := range []string{core.CategoryNodal, core.CategoryElement} {
			table := sr.Table(category)
			for _, field := range sortedFieldNames(table) {
				values := table[field]
				lo, hi := minMax(values)
				rows = append(rows, []string{
					step, category, field, strconv.Itoa(len(values)), formatFloat(lo), formatFloat(hi),
				})
			}
		}
	}
	return rows
}
