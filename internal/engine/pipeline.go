package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapfea/internal/runner"
	"github.com/leapstack-labs/leapfea/internal/snapshot"
	"github.com/leapstack-labs/leapfea/internal/state"
	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// WriteOptions controls input generation.
type WriteOptions struct {
	// Save writes a snapshot of the structure next to the input file.
	Save bool
}

// AnalyseOptions holds the run parameters of an analysis.
type AnalyseOptions struct {
	Exe string
	// Command replaces the default invocation when set.
	Command string
	CPUs    int
	License core.License
	Cleanup bool
}

// ExtractOptions selects what to extract.
type ExtractOptions struct {
	// Steps is "last", "all" or explicit step names.
	Steps   []string
	License core.License
}

// PipelineOptions configures AnalyseAndExtract.
type PipelineOptions struct {
	Save    bool
	Analyse AnalyseOptions
	Steps   []string
}

// EffectiveCPUs applies the license policy to a requested CPU count.
func EffectiveCPUs(requested int, license core.License) int {
	if license.Restricted() || requested < 1 {
		return 1
	}
	return requested
}

// WriteInput translates the structure into the named solver's input file.
func (e *Engine) WriteInput(ctx context.Context, solverName string, fields core.Fields, opts WriteOptions) (string, error) {
	sv, err := e.resolve(solverName)
	if err != nil {
		return "", err
	}
	return e.writeInput(ctx, sv, fields, opts)
}

func (e *Engine) writeInput(ctx context.Context, sv solver.Solver, fields core.Fields, opts WriteOptions) (string, error) {
	if opts.Save {
		if _, err := snapshot.Save(e.structure); err != nil {
			return "", fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	if err := e.structure.Validate(); err != nil {
		return "", fmt.Errorf("invalid structure: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := sv.Translate(ctx, e.structure, fields)
	if err != nil {
		return "", fmt.Errorf("failed to write %s input: %w", sv.Name(), err)
	}
	e.logger.Info("input written", slog.String("solver", sv.Name()), slog.String("file", file))
	return file, nil
}

// Analyse runs the named solver on the previously written input.
func (e *Engine) Analyse(ctx context.Context, solverName string, opts AnalyseOptions) (*solver.Outcome, error) {
	sv, err := e.resolve(solverName)
	if err != nil {
		return nil, err
	}
	return e.analyse(ctx, sv, opts)
}

func (e *Engine) analyse(ctx context.Context, sv solver.Solver, opts AnalyseOptions) (*solver.Outcome, error) {
	cpus := EffectiveCPUs(opts.CPUs, opts.License)
	if cpus != opts.CPUs && opts.CPUs > 0 {
		e.logger.Warn("cpu count limited by license",
			slog.Int("requested", opts.CPUs), slog.Int("cpus", cpus), slog.String("license", string(opts.License)))
	}
	job := solver.Job{
		Exe:     opts.Exe,
		Command: opts.Command,
		CPUs:    cpus,
		License: opts.License,
		Cleanup: opts.Cleanup,
	}

	e.logger.Info("starting analysis", slog.String("solver", sv.Name()), slog.Int("cpus", cpus))
	outcome, err := sv.Run(ctx, e.structure, e.exec, job)
	if err != nil {
		return outcome, fmt.Errorf("%s analysis failed: %w", sv.Name(), err)
	}
	if outcome == nil {
		outcome = &solver.Outcome{}
	}
	e.logger.Info("analysis completed", slog.String("solver", sv.Name()), slog.Duration("duration", outcome.Duration))
	return outcome, nil
}

// Extract reads solver output into the structure's results.
func (e *Engine) Extract(ctx context.Context, solverName string, fields core.Fields, opts ExtractOptions) error {
	sv, err := e.resolve(solverName)
	if err != nil {
		return err
	}
	_, err = e.extract(ctx, sv, fields, opts)
	return err
}

func (e *Engine) extract(ctx context.Context, sv solver.Solver, fields core.Fields, opts ExtractOptions) (core.Results, error) {
	fresh := core.Results{}
	err := sv.Extract(ctx, e.structure, fresh, fields, solver.ExtractOptions{Steps: opts.Steps, License: opts.License})
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s results: %w", sv.Name(), err)
	}

	merged := e.structure.Results()
	for step, sr := range fresh {
		for field, values := range sr.Nodal {
			merged.SetNodal(step, field, values)
		}
		for field, values := range sr.Element {
			merged.SetElement(step, field, values)
		}
	}
	e.logger.Info("results extracted", slog.String("solver", sv.Name()), slog.Any("steps", fresh.Steps()))
	return fresh, nil
}

// AnalyseAndExtract writes the input, runs the solver and extracts results
// as one recorded run. Phases run strictly in order and the first failure
// ends the run.
func (e *Engine) AnalyseAndExtract(ctx context.Context, solverName string, fields core.Fields, opts PipelineOptions) (*state.Run, error) {
	sv, err := e.resolve(solverName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e.logger.Info("starting run", slog.String("structure", e.structure.Name()), slog.String("solver", sv.Name()))

	cpus := EffectiveCPUs(opts.Analyse.CPUs, opts.Analyse.License)
	run, err := e.store.CreateRun(e.structure.Name(), sv.Name(), cpus, opts.Analyse.License)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	fail := func(exitCode *int, cause error) (*state.Run, error) {
		e.logger.Error("run failed", slog.String("run_id", run.ID), slog.String("error", cause.Error()))
		if err := e.store.CompleteRun(run.ID, state.RunStatusFailed, exitCode, cause.Error()); err != nil {
			e.logger.Warn("failed to record run failure", slog.String("run_id", run.ID), slog.String("error", err.Error()))
		}
		return nil, cause
	}

	if _, err := e.writeInput(ctx, sv, fields, WriteOptions{Save: opts.Save}); err != nil {
		return fail(nil, err)
	}

	outcome, err := e.analyse(ctx, sv, opts.Analyse)
	if err != nil {
		var pe *runner.ProcessError
		if errors.As(err, &pe) {
			code := pe.ExitCode
			return fail(&code, err)
		}
		return fail(nil, err)
	}
	exitCode := outcome.ExitCode

	fresh, err := e.extract(ctx, sv, fields, ExtractOptions{Steps: opts.Steps, License: opts.Analyse.License})
	if err != nil {
		return fail(&exitCode, err)
	}
	n, err := e.store.SaveResults(run.ID, fresh)
	if err != nil {
		return fail(&exitCode, fmt.Errorf("failed to save results: %w", err))
	}

	if err := e.store.CompleteRun(run.ID, state.RunStatusCompleted, &exitCode, ""); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}
	e.logger.Info("run completed",
		slog.String("run_id", run.ID),
		slog.Int("values", n),
		slog.Duration("duration", time.Since(start)))
	return e.store.GetRun(run.ID)
}
