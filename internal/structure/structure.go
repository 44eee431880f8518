// Package structure holds the finite element model: nodes, elements,
// sets, properties, boundary conditions, steps and results.
//
// Node and element storage is backed by a geometric index so that
// coincident geometry is never duplicated. Every other entity lives in
// a name-keyed registry. References between entities are checked when
// the model is validated for a solver, not when they are added, except
// for element properties which need their material and section.
package structure

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfea/internal/geom"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// DefaultName is used when a structure is created without a name.
const DefaultName = "leapfea-structure"

// Options configures a Structure.
type Options struct {
	// Tolerance is the number of decimal places used for geometric keys.
	// Nil means geom.DefaultTolerance; zero rounds to whole units.
	Tolerance *int
	// StrictNames rejects adds that would replace a named entity.
	StrictNames bool
	Logger      *slog.Logger
}

// Structure is the in-memory finite element model.
type Structure struct {
	name   string
	path   string
	logger *slog.Logger

	index    *geom.Index
	nodes    *NodeStore
	elements *ElementStore

	sets          *Registry[*core.Set]
	materials     *Registry[*core.Material]
	sections      *Registry[*core.Section]
	properties    *Registry[*core.ElementProperties]
	displacements *Registry[*core.Displacement]
	loads         *Registry[*core.Load]
	steps         *Registry[*core.Step]
	constraints   *Registry[*core.Record]
	interactions  *Registry[*core.Record]
	misc          *Registry[*core.Record]

	stepsOrder []string
	results    core.Results
}

var _ core.Model = (*Structure)(nil)

// Tol returns a tolerance for Options.
func Tol(decimals int) *int { return &decimals }

// New creates an empty structure whose solver files live in path.
func New(path, name string, opts Options) *Structure {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if name == "" {
		name = DefaultName
	}
	tol := geom.DefaultTolerance
	if opts.Tolerance != nil {
		tol = *opts.Tolerance
	}
	index := geom.New(tol)
	strict := opts.StrictNames
	return &Structure{
		name:          name,
		path:          path,
		logger:        logger.With("structure", name),
		index:         index,
		nodes:         newNodeStore(index),
		elements:      newElementStore(index),
		sets:          NewRegistry[*core.Set]("set", strict),
		materials:     NewRegistry[*core.Material]("material", strict),
		sections:      NewRegistry[*core.Section]("section", strict),
		properties:    NewRegistry[*core.ElementProperties]("element properties", strict),
		displacements: NewRegistry[*core.Displacement]("displacement", strict),
		loads:         NewRegistry[*core.Load]("load", strict),
		steps:         NewRegistry[*core.Step]("step", strict),
		constraints:   NewRegistry[*core.Record]("constraint", strict),
		interactions:  NewRegistry[*core.Record]("interaction", strict),
		misc:          NewRegistry[*core.Record]("misc", strict),
		results:       core.Results{},
	}
}

// Name returns the structure name, used as the base name of solver files.
func (s *Structure) Name() string { return s.name }

// Path returns the directory holding solver files.
func (s *Structure) Path() string { return s.path }

// SetPath changes the directory holding solver files.
func (s *Structure) SetPath(path string) { s.path = path }

// Tolerance returns the geometric key precision.
func (s *Structure) Tolerance() int { return s.index.Tolerance() }

// Logger returns the structure logger.
func (s *Structure) Logger() *slog.Logger { return s.logger }

// Nodes returns the node mapping.
func (s *Structure) Nodes() map[int]*core.Node { return s.nodes.nodes }

// Elements returns the element mapping.
func (s *Structure) Elements() map[int]*core.Element { return s.elements.elements }

// Sets returns the set mapping.
func (s *Structure) Sets() map[string]*core.Set { return s.sets.Map() }

// Materials returns the material mapping.
func (s *Structure) Materials() map[string]*core.Material { return s.materials.Map() }

// Sections returns the section mapping.
func (s *Structure) Sections() map[string]*core.Section { return s.sections.Map() }

// ElementProperties returns the element properties mapping.
func (s *Structure) ElementProperties() map[string]*core.ElementProperties {
	return s.properties.Map()
}

// Displacements returns the displacement mapping.
func (s *Structure) Displacements() map[string]*core.Displacement { return s.displacements.Map() }

// Loads returns the load mapping.
func (s *Structure) Loads() map[string]*core.Load { return s.loads.Map() }

// Steps returns the step mapping.
func (s *Structure) Steps() map[string]*core.Step { return s.steps.Map() }

// Constraints returns the constraint mapping.
func (s *Structure) Constraints() map[string]*core.Record { return s.constraints.Map() }

// Interactions returns the interaction mapping.
func (s *Structure) Interactions() map[string]*core.Record { return s.interactions.Map() }

// Misc returns the misc mapping.
func (s *Structure) Misc() map[string]*core.Record { return s.misc.Map() }

// Replaced returns how many adds replaced an existing named entity.
func (s *Structure) Replaced() int {
	n := 0
	for _, c := range []interface{ Replaced() int }{
		s.sets, s.materials, s.sections, s.properties, s.displacements,
		s.loads, s.steps, s.constraints, s.interactions, s.misc,
	} {
		n += c.Replaced()
	}
	return n
}

// Contents is a plain copy of every mapping of a structure, used to
// persist and restore it.
type Contents struct {
	Nodes             map[int]*core.Node
	Elements          map[int]*core.Element
	Sets              map[string]*core.Set
	Materials         map[string]*core.Material
	Sections          map[string]*core.Section
	ElementProperties map[string]*core.ElementProperties
	Displacements     map[string]*core.Displacement
	Loads             map[string]*core.Load
	Steps             map[string]*core.Step
	StepsOrder        []string
	Constraints       map[string]*core.Record
	Interactions      map[string]*core.Record
	Misc              map[string]*core.Record
	Results           core.Results
}

// Contents returns the mappings of the structure. The maps are shared.
func (s *Structure) Contents() Contents {
	return Contents{
		Nodes:             s.Nodes(),
		Elements:          s.Elements(),
		Sets:              s.Sets(),
		Materials:         s.Materials(),
		Sections:          s.Sections(),
		ElementProperties: s.ElementProperties(),
		Displacements:     s.Displacements(),
		Loads:             s.Loads(),
		Steps:             s.Steps(),
		StepsOrder:        s.StepsOrder(),
		Constraints:       s.Constraints(),
		Interactions:      s.Interactions(),
		Misc:              s.Misc(),
		Results:           s.results,
	}
}

// Restore rebuilds a structure from persisted contents. Node and element
// keys are kept as stored.
func Restore(path, name string, c Contents, opts Options) (*Structure, error) {
	s := New(path, name, opts)
	for _, k := range sortedIntKeys(c.Nodes) {
		n := c.Nodes[k]
		n.Key = k
		if err := s.nodes.insert(n); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}
	for _, k := range sortedIntKeys(c.Elements) {
		e := c.Elements[k]
		e.Key = k
		pts, err := s.elementPoints(e.Nodes)
		if err != nil {
			return nil, fmt.Errorf("restore element %d: %w", k, err)
		}
		if err := s.elements.insert(e, pts); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}
	restoreInto(s.sets, c.Sets, func(v *core.Set, name string) { v.Name = name })
	restoreInto(s.materials, c.Materials, func(v *core.Material, name string) { v.Name = name })
	restoreInto(s.sections, c.Sections, func(v *core.Section, name string) { v.Name = name })
	restoreInto(s.properties, c.ElementProperties, func(v *core.ElementProperties, name string) { v.Name = name })
	restoreInto(s.displacements, c.Displacements, func(v *core.Displacement, name string) { v.Name = name })
	restoreInto(s.loads, c.Loads, func(v *core.Load, name string) { v.Name = name })
	restoreInto(s.steps, c.Steps, func(v *core.Step, name string) { v.Name = name })
	restoreInto(s.constraints, c.Constraints, func(v *core.Record, name string) { v.Name = name })
	restoreInto(s.interactions, c.Interactions, func(v *core.Record, name string) { v.Name = name })
	restoreInto(s.misc, c.Misc, func(v *core.Record, name string) { v.Name = name })
	s.SetStepsOrder(c.StepsOrder)
	if c.Results != nil {
		s.results = c.Results
	}
	return s, nil
}

func restoreInto[T any](r *Registry[T], items map[string]T, setName func(T, string)) {
	for name, v := range items {
		setName(v, name)
		r.items[name] = v
	}
}
