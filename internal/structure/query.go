package structure

import (
	"fmt"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// Results returns the result store. Extractors write into it.
func (s *Structure) Results() core.Results { return s.results }

// SetResults replaces the result store.
func (s *Structure) SetResults(r core.Results) {
	if r == nil {
		r = core.Results{}
	}
	s.results = r
}

// NodalResults projects a nodal field of a step onto the selected nodes.
func (s *Structure) NodalResults(step, field string, sel core.Selection) (map[int]float64, error) {
	return s.project(step, core.CategoryNodal, field, sel)
}

// ElementResults projects an element field of a step onto the selected
// elements.
func (s *Structure) ElementResults(step, field string, sel core.Selection) (map[int]float64, error) {
	return s.project(step, core.CategoryElement, field, sel)
}

func (s *Structure) project(step, category, field string, sel core.Selection) (map[int]float64, error) {
	sr, ok := s.results[step]
	if !ok {
		return nil, fmt.Errorf("results for step %q: %w", step, core.ErrUnknownStep)
	}
	values, ok := sr.Table(category)[field]
	if !ok {
		return nil, fmt.Errorf("%s results for step %q, field %q: %w", category, step, field, core.ErrUnknownField)
	}
	keys, err := s.resolve(sel, category == core.CategoryElement)
	if err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(keys))
	for _, k := range keys {
		v, ok := values[k]
		if !ok {
			return nil, fmt.Errorf("step %q, field %q, key %d: %w", step, field, k, core.ErrMissingResult)
		}
		out[k] = v
	}
	return out, nil
}

// resolve turns a selection into concrete keys.
func (s *Structure) resolve(sel core.Selection, elements bool) ([]int, error) {
	switch {
	case sel.IsAll():
		if elements {
			return s.elements.Keys(), nil
		}
		return s.nodes.Keys(), nil
	case sel.Set != "":
		set, ok := s.sets.Get(sel.Set)
		if !ok {
			return nil, fmt.Errorf("set %q: %w", sel.Set, core.ErrUnknownSet)
		}
		return set.Keys(), nil
	default:
		return sel.Keys, nil
	}
}
