package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfea/internal/cli/config"
	"github.com/leapstack-labs/leapfea/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/leapfea/internal/config"
	"github.com/leapstack-labs/leapfea/internal/engine"
	"github.com/leapstack-labs/leapfea/internal/snapshot"
	"github.com/leapstack-labs/leapfea/internal/state"
	"github.com/leapstack-labs/leapfea/internal/structure"
	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/geometry"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or defaults when no
// config has been loaded (e.g. a command run outside the root).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := &config.Config{OutputFormat: config.DefaultOutput}
	sharedcfg.ApplyDefaults(&cfg.Settings)
	return cfg
}

// ensureStateDir creates the directory of a file-backed state database.
func ensureStateDir(statePath string) error {
	if statePath == "" || statePath == ":memory:" {
		return nil
	}
	stateDir := filepath.Dir(statePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return nil
}

// openStore opens the configured run store.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if err := ensureStateDir(cfg.StatePath); err != nil {
		return nil, err
	}
	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}
	return store, nil
}

// createEngine creates an engine for s from the configuration.
func createEngine(cfg *config.Config, s *structure.Structure, logger *slog.Logger) (*engine.Engine, error) {
	if err := ensureStateDir(cfg.StatePath); err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		Structure: s,
		StatePath: cfg.StatePath,
		Logger:    logger,
	})
}

// loadStructure reads a model file. Snapshots (.obj) are restored as
// saved; YAML geometry is converted, meshes through FromMesh with their
// attributes, networks as beams and volume meshes as solids.
func loadStructure(file string, cfg *config.Config, logger *slog.Logger) (*structure.Structure, error) {
	opts := structure.Options{Tolerance: cfg.Tol, StrictNames: cfg.StrictNames, Logger: logger}
	name := cfg.Name
	if name == "" || name == structure.DefaultName {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	if filepath.Ext(file) == snapshot.Ext {
		s, err := snapshot.Load(file, opts)
		if err != nil {
			return nil, err
		}
		s.SetPath(cfg.Path)
		return s, nil
	}

	geo, err := geometry.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	switch g := geo.(type) {
	case *geometry.MeshData:
		return structure.FromMesh(cfg.Path, name, g, opts)
	case *geometry.NetworkData:
		s := structure.New(cfg.Path, name, opts)
		if _, err := s.AddNodesElementsFromNetwork(g, core.BeamElement, structure.BulkOptions{}); err != nil {
			return nil, err
		}
		return s, nil
	case *geometry.VolMeshData:
		s := structure.New(cfg.Path, name, opts)
		if _, err := s.AddNodesElementsFromVolMesh(g, core.SolidElement, structure.BulkOptions{}); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unsupported geometry %T", file, geo)
	}
}

// defaultStepsOrder uses the step names in sorted order when a model
// carries steps but no analysis order.
func defaultStepsOrder(s *structure.Structure, logger *slog.Logger) {
	if len(s.StepsOrder()) > 0 || len(s.Steps()) == 0 {
		return
	}
	names := make([]string, 0, len(s.Steps()))
	for name := range s.Steps() {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Warn("steps_order not set, using sorted step names", slog.Any("steps", names))
	s.SetStepsOrder(names)
}
