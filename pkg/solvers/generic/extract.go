package generic

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// ResultsHeader is the header of the result table.
var ResultsHeader = []string{"step", "category", "field", "key", "value"}

// Extract reads path/name-results.csv into sink. Rows of steps not
// selected, or of fields not requested, are skipped. An empty field
// request extracts every field.
func (s *Solver) Extract(ctx context.Context, model core.Model, sink core.ResultSink, fields core.Fields, opts solver.ExtractOptions) error {
	steps, err := solver.ResolveSteps(model.StepsOrder(), opts.Steps)
	if err != nil {
		return err
	}
	file := ResultsFile(model)
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	n, err := ReadResults(ctx, f, sink, Filter{Steps: steps, Fields: fields})
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	s.logger.Info("extracted results", "file", file, "steps", steps, "values", n, "license", opts.License)
	return nil
}

// Filter selects result rows.
type Filter struct {
	Steps  []string
	Fields core.Fields
}

func (f Filter) match(step, field string) bool {
	if len(f.Fields) > 0 && !f.Fields.Has(field) {
		return false
	}
	if f.Steps == nil {
		return true
	}
	for _, s := range f.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// ReadResults parses a result table and stores the matching rows. It
// returns the number of values stored.
func ReadResults(ctx context.Context, r io.Reader, sink core.ResultSink, filter Filter) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ResultsHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	for i, col := range ResultsHeader {
		if header[i] != col {
			return 0, fmt.Errorf("header column %d is %q, want %q", i+1, header[i], col)
		}
	}

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		step, category, field := rec[0], rec[1], rec[2]
		if category != core.CategoryNodal && category != core.CategoryElement {
			line, _ := cr.FieldPos(1)
			return n, fmt.Errorf("line %d: unknown category %q", line, category)
		}
		if !filter.match(step, field) {
			continue
		}
		key, err := strconv.Atoi(rec[3])
		if err != nil {
			line, _ := cr.FieldPos(3)
			return n, fmt.Errorf("line %d: key: %w", line, err)
		}
		value, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			line, _ := cr.FieldPos(4)
			return n, fmt.Errorf("line %d: value: %w", line, err)
		}
		sink.Set(step, category, field, key, value)
		n++
	}
}
