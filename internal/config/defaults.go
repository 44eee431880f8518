package config

import (
	"github.com/leapstack-labs/leapfea/internal/geom"
	"github.com/leapstack-labs/leapfea/internal/structure"
	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// Default configuration values.
const (
	DefaultSolver    = "generic"
	DefaultCPUs      = 1
	DefaultLicense   = core.LicenseResearch
	DefaultPath      = "."
	DefaultStateFile = ".leapfea/state.db"
)

// DefaultFields returns the fields extracted when none are configured.
func DefaultFields() []string { return []string{"u"} }

// Defaults returns the default settings as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"name":         structure.DefaultName,
		"path":         DefaultPath,
		"tol":          geom.DefaultTolerance,
		"solver":       DefaultSolver,
		"cpus":         DefaultCPUs,
		"license":      string(DefaultLicense),
		"cleanup":      false,
		"fields":       DefaultFields(),
		"steps":        []string{solver.StepsLast},
		"save":         false,
		"state_path":   DefaultStateFile,
		"strict_names": false,
	}
}

// ApplyDefaults fills unset values.
func ApplyDefaults(s *Settings) {
	if s == nil {
		return
	}
	if s.Name == "" {
		s.Name = structure.DefaultName
	}
	if s.Path == "" {
		s.Path = DefaultPath
	}
	if s.Tol == nil {
		s.Tol = structure.Tol(geom.DefaultTolerance)
	}
	if s.Solver == "" {
		s.Solver = DefaultSolver
	}
	if s.CPUs == 0 {
		s.CPUs = DefaultCPUs
	}
	if s.License == "" {
		s.License = string(DefaultLicense)
	}
	if len(s.Fields) == 0 {
		s.Fields = DefaultFields()
	}
	if s.StatePath == "" {
		s.StatePath = DefaultStateFile
	}
}
