package structure

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// SetStepsOrder sets the analysis order. Names are checked by
// ValidateSteps, not here.
func (s *Structure) SetStepsOrder(order []string) {
	s.stepsOrder = append([]string(nil), order...)
}

// StepsOrder returns the analysis order.
func (s *Structure) StepsOrder() []string {
	return append([]string(nil), s.stepsOrder...)
}

// OrderedSteps returns the steps in analysis order.
func (s *Structure) OrderedSteps() ([]*core.Step, error) {
	out := make([]*core.Step, 0, len(s.stepsOrder))
	for _, name := range s.stepsOrder {
		st, ok := s.steps.Get(name)
		if !ok {
			return nil, fmt.Errorf("step %q: %w", name, core.ErrUnknownStep)
		}
		out = append(out, st)
	}
	return out, nil
}

// ValidateSteps checks that every name in the steps order is a step and
// that every displacement and load a step applies exists. All problems
// are reported together.
func (s *Structure) ValidateSteps() error {
	var errs []error
	for _, name := range s.stepsOrder {
		if !s.steps.Has(name) {
			errs = append(errs, fmt.Errorf("steps order: step %q: %w", name, core.ErrUnknownStep))
		}
	}
	for _, name := range s.steps.Names() {
		st, _ := s.steps.Get(name)
		for _, d := range st.Displacements {
			if !s.displacements.Has(d) {
				errs = append(errs, fmt.Errorf("step %q: displacement %q: %w", name, d, core.ErrUnknownDisplacement))
			}
		}
		for _, l := range st.Loads {
			if !s.loads.Has(l) {
				errs = append(errs, fmt.Errorf("step %q: load %q: %w", name, l, core.ErrUnknownLoad))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks every reference in the structure: steps, sets,
// element properties, displacements and loads.
func (s *Structure) Validate() error {
	errs := []error{s.ValidateSteps()}
	for _, name := range s.sets.Names() {
		set, _ := s.sets.Get(name)
		errs = append(errs, s.checkKeys(fmt.Sprintf("set %q", name), set.Keys(), set.TargetsElements()))
	}
	for _, name := range s.properties.Names() {
		ep, _ := s.properties.Get(name)
		for _, elset := range ep.ElementSets {
			errs = append(errs, s.checkSet(fmt.Sprintf("element properties %q", name), elset))
		}
		errs = append(errs, s.checkKeys(fmt.Sprintf("element properties %q", name), ep.Elements, true))
	}
	for _, name := range s.displacements.Names() {
		d, _ := s.displacements.Get(name)
		errs = append(errs, s.checkSelection(fmt.Sprintf("displacement %q", name), d.Nodes, false))
	}
	for _, name := range s.loads.Names() {
		l, _ := s.loads.Get(name)
		errs = append(errs,
			s.checkSelection(fmt.Sprintf("load %q", name), l.Nodes, false),
			s.checkSelection(fmt.Sprintf("load %q", name), l.Elements, true))
	}
	return errors.Join(errs...)
}

func (s *Structure) checkSelection(owner string, sel core.Selection, elements bool) error {
	if sel.Set != "" {
		return s.checkSet(owner, sel.Set)
	}
	return s.checkKeys(owner, sel.Keys, elements)
}

func (s *Structure) checkSet(owner, name string) error {
	if !s.sets.Has(name) {
		return fmt.Errorf("%s: set %q: %w", owner, name, core.ErrUnknownSet)
	}
	return nil
}

func (s *Structure) checkKeys(owner string, keys []int, elements bool) error {
	var errs []error
	for _, k := range keys {
		if elements {
			if _, ok := s.elements.Get(k); !ok {
				errs = append(errs, fmt.Errorf("%s: element %d: %w", owner, k, core.ErrUnknownElement))
			}
			continue
		}
		if _, ok := s.nodes.Get(k); !ok {
			errs = append(errs, fmt.Errorf("%s: node %d: %w", owner, k, core.ErrUnknownNode))
		}
	}
	return errors.Join(errs...)
}
