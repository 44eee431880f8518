// Package core defines the shared language of the LeapFEA system.
//
// This package contains:
//   - Domain entities (Node, Element, Set, Material, Section, Step, etc.)
//   - Boundary conditions and loads with their component mappings
//   - The field request vocabulary and result tables
//   - The read-only Model view handed to solvers
//   - Sentinel errors shared by every layer
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
