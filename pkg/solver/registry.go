package solver

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory creates a solver. A nil logger means discard.
type Factory func(*slog.Logger) Solver

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a solver factory to the registry.
// Called by solver implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a solver factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates the named solver.
func New(name string, logger *slog.Logger) (Solver, error) {
	if name == "" {
		return nil, fmt.Errorf("solver not specified")
	}
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownSolverError{Name: name, Available: List()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger.With("solver", name)), nil
}

// List returns all registered solver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a solver name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownSolverError is returned when an unregistered solver is requested.
type UnknownSolverError struct {
	Name      string
	Available []string
}

func (e *UnknownSolverError) Error() string {
	return fmt.Sprintf("unsupported solver %q\nAvailable solvers: %v\nHint: Check solver in leapfea.yaml or --solver", e.Name, e.Available)
}
