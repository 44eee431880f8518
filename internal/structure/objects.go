package structure

import (
	"fmt"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// put stores v in r and reports a replacement.
func put[T any](s *Structure, r *Registry[T], name string, v T) error {
	replaced, err := r.Put(name, v)
	if err != nil {
		return err
	}
	if replaced {
		s.logger.Warn("replaced existing entry", "kind", r.kind, "name", name)
	}
	return nil
}

// AddSet adds a named set. selection is an int or []int of node or
// element keys, or []core.SurfaceFace for surface sets. Keys are checked
// when the set is used.
func (s *Structure) AddSet(name string, typ core.SetType, selection any) error {
	if !typ.Valid() {
		return fmt.Errorf("set %q: type %q: %w", name, typ, core.ErrInvalidSet)
	}
	set := &core.Set{Name: name, Type: typ, Index: s.sets.Len()}
	switch v := selection.(type) {
	case int:
		set.Selection = []int{v}
	case []int:
		set.Selection = append([]int(nil), v...)
	case []core.SurfaceFace:
		set.Surface = append([]core.SurfaceFace(nil), v...)
	case map[int]string:
		for _, k := range sortedIntKeys(v) {
			set.Surface = append(set.Surface, core.SurfaceFace{Element: k, Side: v[k]})
		}
	default:
		return fmt.Errorf("set %q: selection of type %T: %w", name, selection, core.ErrInvalidSet)
	}
	if len(set.Surface) > 0 && typ != core.SetSurfaceElement && typ != core.SetSurfaceNode {
		return fmt.Errorf("set %q: surface faces need a surface set type: %w", name, core.ErrInvalidSet)
	}
	return put(s, s.sets, name, set)
}

// AddMaterial adds a material.
func (s *Structure) AddMaterial(m *core.Material) error {
	return put(s, s.materials, m.Name, m)
}

// AddMaterials adds several materials.
func (s *Structure) AddMaterials(ms ...*core.Material) error {
	for _, m := range ms {
		if err := s.AddMaterial(m); err != nil {
			return err
		}
	}
	return nil
}

// AddSection adds a section.
func (s *Structure) AddSection(sec *core.Section) error {
	return put(s, s.sections, sec.Name, sec)
}

// AddSections adds several sections.
func (s *Structure) AddSections(secs ...*core.Section) error {
	for _, sec := range secs {
		if err := s.AddSection(sec); err != nil {
			return err
		}
	}
	return nil
}

// AddElementProperties binds a material and section to elements. Both
// must already exist. Element sets and keys are checked on validation.
func (s *Structure) AddElementProperties(ep *core.ElementProperties) error {
	if !s.materials.Has(ep.Material) {
		return fmt.Errorf("element properties %q: material %q: %w", ep.Name, ep.Material, core.ErrUnknownMaterial)
	}
	if !s.sections.Has(ep.Section) {
		return fmt.Errorf("element properties %q: section %q: %w", ep.Name, ep.Section, core.ErrUnknownSection)
	}
	return put(s, s.properties, ep.Name, ep)
}

// AddElementPropertiesList adds several element properties.
func (s *Structure) AddElementPropertiesList(eps ...*core.ElementProperties) error {
	for _, ep := range eps {
		if err := s.AddElementProperties(ep); err != nil {
			return err
		}
	}
	return nil
}

// AddDisplacement adds a displacement.
func (s *Structure) AddDisplacement(d *core.Displacement) error {
	return put(s, s.displacements, d.Name, d)
}

// AddDisplacements adds several displacements.
func (s *Structure) AddDisplacements(ds ...*core.Displacement) error {
	for _, d := range ds {
		if err := s.AddDisplacement(d); err != nil {
			return err
		}
	}
	return nil
}

// AddLoad adds a load.
func (s *Structure) AddLoad(l *core.Load) error {
	return put(s, s.loads, l.Name, l)
}

// AddLoads adds several loads.
func (s *Structure) AddLoads(ls ...*core.Load) error {
	for _, l := range ls {
		if err := s.AddLoad(l); err != nil {
			return err
		}
	}
	return nil
}

// AddStep adds a step. Steps are only analysed once named in the
// steps order.
func (s *Structure) AddStep(st *core.Step) error {
	return put(s, s.steps, st.Name, st)
}

// AddSteps adds several steps.
func (s *Structure) AddSteps(sts ...*core.Step) error {
	for _, st := range sts {
		if err := s.AddStep(st); err != nil {
			return err
		}
	}
	return nil
}

// AddConstraint adds a constraint record.
func (s *Structure) AddConstraint(r *core.Record) error {
	return put(s, s.constraints, r.Name, r)
}

// AddInteraction adds an interaction record.
func (s *Structure) AddInteraction(r *core.Record) error {
	return put(s, s.interactions, r.Name, r)
}

// AddMisc adds a misc record.
func (s *Structure) AddMisc(r *core.Record) error {
	return put(s, s.misc, r.Name, r)
}
