// Package generic provides a solver that exchanges plain files with an
// external program: a YAML input deck and a CSV result table.
//
// This file registers the solver with the solver registry.
// Import this package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/leapfea/pkg/solvers/generic"
package generic

import (
	"log/slog"

	"github.com/leapstack-labs/leapfea/pkg/solver"
)

func init() {
	solver.Register(Name, func(logger *slog.Logger) solver.Solver { return New(logger) })
}
