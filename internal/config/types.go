// Package config provides the project settings shared by the CLI and the
// analysis engine. It is decoupled from CLI concerns so other tools can
// read a leapfea.yaml without pulling in cobra.
package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// SolverConfig holds per-solver overrides.
type SolverConfig struct {
	Exe     string `koanf:"exe"`
	Command string `koanf:"command"`
}

// Settings holds the analysis settings of a project.
type Settings struct {
	Name string `koanf:"name"`
	Path string `koanf:"path"` // output directory for input decks and snapshots
	Tol  *int   `koanf:"tol"`  // decimal places; zero rounds to whole units

	Solver  string `koanf:"solver"`
	Exe     string `koanf:"exe"`
	Command string `koanf:"command"` // full override run through the shell
	CPUs    int    `koanf:"cpus"`
	License string `koanf:"license"`
	Cleanup bool   `koanf:"cleanup"`

	Fields []string `koanf:"fields"`
	Steps  []string `koanf:"steps"`
	Save   bool     `koanf:"save"`

	StatePath   string `koanf:"state_path"`
	StrictNames bool   `koanf:"strict_names"`

	Solvers map[string]SolverConfig `koanf:"solvers"`
}

// ExeFor returns the executable for the named solver. A per-solver
// override wins over the global exe.
func (s *Settings) ExeFor(name string) string {
	if sc, ok := s.Solvers[name]; ok && sc.Exe != "" {
		return sc.Exe
	}
	return s.Exe
}

// CommandFor returns the override command for the named solver.
func (s *Settings) CommandFor(name string) string {
	if sc, ok := s.Solvers[name]; ok && sc.Command != "" {
		return sc.Command
	}
	return s.Command
}

// LicenseTier returns the license as a core value.
func (s *Settings) LicenseTier() core.License {
	return core.License(s.License)
}

// Validate checks the settings against the solver registry and the
// license tiers. All problems are reported together.
func (s *Settings) Validate() error {
	var errs []error
	if s.Solver == "" {
		errs = append(errs, errors.New("solver is required"))
	} else if !solver.IsRegistered(s.Solver) {
		errs = append(errs, &solver.UnknownSolverError{Name: s.Solver, Available: solver.List()})
	}
	if !s.LicenseTier().Valid() {
		errs = append(errs, fmt.Errorf("unknown license %q (expected %s or %s)",
			s.License, core.LicenseStudent, core.LicenseResearch))
	}
	if s.CPUs < 0 {
		errs = append(errs, fmt.Errorf("cpus must not be negative, got %d", s.CPUs))
	}
	if s.Tol != nil && *s.Tol < 0 {
		errs = append(errs, fmt.Errorf("tol must not be negative, got %d", *s.Tol))
	}
	for name := range s.Solvers {
		if !solver.IsRegistered(name) {
			errs = append(errs, fmt.Errorf("solvers.%s: %w", name, &solver.UnknownSolverError{Name: name, Available: solver.List()}))
		}
	}
	return errors.Join(errs...)
}
