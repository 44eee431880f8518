package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded analysis runs",
		Long:  `List the runs recorded in the state database, most recent first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runRuns(cmd, limit)
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		exit := "-"
		if run.ExitCode != nil {
			exit = strconv.Itoa(*run.ExitCode)
		}
		rows = append(rows, []string{
			run.ID, run.Model, run.Solver, string(run.Status), exit,
			run.StartedAt.Local().Format(time.DateTime),
		})
	}
	r.Header(1, "Runs ("+strconv.Itoa(len(runs))+")")
	r.Table([]string{"ID", "Model", "Solver", "Status", "Exit", "Started"}, rows)
	return nil
}
