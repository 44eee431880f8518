package commands

import (
	"math"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// NewResultsCommand creates the results command.
func NewResultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <run-id>",
		Short: "Show the results stored for a run",
		Example: `  leapfea results 0b6c1f1e-7c1d-4a53-9d70-1f0d0f5d2f4e
  leapfea results <run-id> --step load --field ux --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, _ := cmd.Flags().GetString("step")
			field, _ := cmd.Flags().GetString("field")
			return runResults(cmd, args[0], step, field)
		},
	}
	cmd.Flags().String("step", "", "Only show this step")
	cmd.Flags().String("field", "", "Only show this field")
	return cmd
}

func runResults(cmd *cobra.Command, runID, step, field string) error {
	cmdCtx := NewCommandContext(cmd)
	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	results, err := store.LoadResults(run.ID)
	if err != nil {
		return err
	}
	results = filterResults(results, step, field)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"run": run, "results": results})
	}

	var rows [][]string
	for _, name := range results.Steps() {
		sr := results[name]
		for _, category := range []string{core.CategoryNodal, core.CategoryElement} {
			table := sr.Table(category)
			for _, f := range sortedFieldNames(table) {
				values := table[f]
				keys := make([]int, 0, len(values))
				for k := range values {
					keys = append(keys, k)
				}
				sort.Ints(keys)
				for _, k := range keys {
					rows = append(rows, []string{name, category, f, strconv.Itoa(k), formatFloat(values[k])})
				}
			}
		}
	}

	r.Header(1, "Results of run "+run.ID)
	r.KeyValue("model", run.Model)
	r.KeyValue("status", run.Status)
	r.Println()
	r.Table([]string{"Step", "Category", "Field", "Key", "Value"}, rows)
	return nil
}

// filterResults keeps the given step and field. Empty filters keep all.
func filterResults(results core.Results, step, field string) core.Results {
	if step == "" && field == "" {
		return results
	}
	out := core.Results{}
	for name, sr := range results {
		if step != "" && name != step {
			continue
		}
		for f, values := range sr.Nodal {
			if field == "" || f == field {
				out.SetNodal(name, f, values)
			}
		}
		for f, values := range sr.Element {
			if field == "" || f == field {
				out.SetElement(name, f, values)
			}
		}
	}
	return out
}

func sortedFieldNames(table core.FieldTable) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func minMax(values map[int]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
