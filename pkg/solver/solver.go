// Package solver defines the contract between a structure and an
// external finite element solver.
//
// A solver translates the model into its input format, runs the
// external program on it and extracts results back into the model.
// Concrete solvers live in pkg/solvers/ subdirectories and register
// themselves by name.
package solver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// Solver is implemented by every supported analysis program.
type Solver interface {
	// Name returns the registered solver name.
	Name() string

	// Translate writes the solver input for model to model.Path() and
	// returns the file written. Steps are emitted in model.StepsOrder().
	Translate(ctx context.Context, model core.Model, fields core.Fields) (string, error)

	// Run executes the solver on the translated input and blocks until
	// the process exits.
	Run(ctx context.Context, model core.Model, exec Executor, job Job) (*Outcome, error)

	// Extract reads the solver output and stores the requested fields
	// in sink.
	Extract(ctx context.Context, model core.Model, sink core.ResultSink, fields core.Fields, opts ExtractOptions) error
}

// Job holds the run parameters of one analysis.
type Job struct {
	// Exe is the solver executable. Empty means the solver default.
	Exe string
	// Command, when set, replaces the default invocation and is run
	// through the platform shell.
	Command string
	CPUs    int
	License core.License
	// Cleanup removes scratch files after a successful run.
	Cleanup bool
}

// ExtractOptions selects what to extract.
type ExtractOptions struct {
	// Steps is "last", "all" or explicit step names. Empty means "last".
	Steps   []string
	License core.License
}

// Step selectors.
const (
	StepsLast = "last"
	StepsAll  = "all"
)

// ResolveSteps turns a step selector into step names using the
// analysis order.
func ResolveSteps(order, selector []string) ([]string, error) {
	if len(selector) == 1 {
		switch selector[0] {
		case StepsAll:
			return append([]string(nil), order...), nil
		case StepsLast:
			selector = nil
		}
	}
	if len(selector) == 0 {
		if len(order) == 0 {
			return nil, fmt.Errorf("no steps to extract: %w", core.ErrUnknownStep)
		}
		return []string{order[len(order)-1]}, nil
	}
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}
	for _, name := range selector {
		if !known[name] {
			return nil, fmt.Errorf("step %q: %w", name, core.ErrUnknownStep)
		}
	}
	return append([]string(nil), selector...), nil
}

// Command is a process invocation.
type Command struct {
	// Name and Args form the default invocation.
	Name string
	Args []string
	// Shell, when set, is run through the platform shell instead.
	Shell string
	// Dir is the working directory.
	Dir string
	Env []string
	// Scratch lists glob patterns, relative to Dir, removed after a
	// successful run.
	Scratch []string
}

// String renders the command for logs.
func (c Command) String() string {
	if c.Shell != "" {
		return c.Shell
	}
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Outcome describes a finished process.
type Outcome struct {
	ExitCode int
	Duration time.Duration
	// Removed lists the scratch files deleted after the run.
	Removed []string
}

// Executor runs a command to completion.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (*Outcome, error)
}

// File returns path/name+ext for a model.
func File(model core.Model, ext string) string {
	return filepath.Join(model.Path(), model.Name()+ext)
}
