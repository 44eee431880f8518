// Package config provides configuration management for the leapfea CLI.
//
// The analysis settings live in internal/config; this package layers the
// CLI-only fields on top and loads everything through koanf.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapfea/internal/config"
)

// Settings is an alias for the shared analysis settings.
type Settings = sharedcfg.Settings

// SolverConfig is an alias for the shared per-solver overrides.
type SolverConfig = sharedcfg.SolverConfig

// Config holds all CLI configuration options.
type Config struct {
	Settings `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = "auto" // TTY=text, non-TTY=markdown
	EnvPrefix        = "LEAPFEA_"
)
