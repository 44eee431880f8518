// Package engine drives a structure through an external solver.
// It handles solver selection, license policy, lazy model validation and
// run bookkeeping.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfea/internal/runner"
	"github.com/leapstack-labs/leapfea/internal/state"
	"github.com/leapstack-labs/leapfea/internal/structure"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// Engine orchestrates write → run → extract for one structure.
type Engine struct {
	structure *structure.Structure
	store     state.Store
	ownStore  bool
	exec      solver.Executor
	logger    *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Structure is the model to analyse.
	Structure *structure.Structure
	// Store records runs and results. When nil, a SQLite store is opened
	// at StatePath.
	Store state.Store
	// StatePath is the path to the SQLite state database. Empty means
	// in-memory.
	StatePath string
	// Executor runs solver processes. Nil uses a runner.Runner.
	Executor solver.Executor
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Structure == nil {
		return nil, errors.New("structure is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("initializing engine", "structure", cfg.Structure.Name(), "path", cfg.Structure.Path())

	e := &Engine{
		structure: cfg.Structure,
		store:     cfg.Store,
		exec:      cfg.Executor,
		logger:    logger,
	}
	if e.exec == nil {
		e.exec = runner.New(logger)
	}
	if e.store == nil {
		path := cfg.StatePath
		if path == "" {
			path = ":memory:"
		}
		store := state.NewSQLiteStore(logger)
		if err := store.Open(path); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.InitSchema(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		e.store = store
		e.ownStore = true
	}
	return e, nil
}

// Structure returns the analysed structure.
func (e *Engine) Structure() *structure.Structure { return e.structure }

// Store returns the run store.
func (e *Engine) Store() state.Store { return e.store }

// Close releases the store if the engine opened it.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.ownStore {
		return e.store.Close()
	}
	return nil
}

// resolve looks up the solver before any side effect.
func (e *Engine) resolve(name string) (solver.Solver, error) {
	sv, err := solver.New(name, e.logger)
	if err != nil {
		return nil, err
	}
	return sv, nil
}
