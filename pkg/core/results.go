package core

import "sort"

// Result categories.
const (
	CategoryNodal   = "nodal"
	CategoryElement = "element"
)

// nodalFields and elementFields form the field request vocabulary.
var (
	nodalFields   = []string{"rf", "rm", "u", "ur", "cf", "cm"}
	elementFields = []string{"sf", "sm", "sk", "se", "s", "e", "pe", "rbfor", "spf"}
)

// NodalFields returns the nodal field tags.
func NodalFields() []string { return append([]string(nil), nodalFields...) }

// ElementFields returns the elemental field tags.
func ElementFields() []string { return append([]string(nil), elementFields...) }

// Fields maps a requested field tag to its component selection.
// Only "all" is produced at this layer.
type Fields map[string]string

// FieldsFromList maps the recognised tags of list to "all".
// Unrecognised tags are dropped.
func FieldsFromList(list []string) Fields {
	requested := make(map[string]struct{}, len(list))
	for _, f := range list {
		requested[f] = struct{}{}
	}
	fields := Fields{}
	for _, f := range append(NodalFields(), elementFields...) {
		if _, ok := requested[f]; ok {
			fields[f] = "all"
		}
	}
	return fields
}

// Names returns the requested tags sorted.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the tag was requested, either directly or as
// the base tag of a component such as "ux" or "sf1".
func (f Fields) Has(field string) bool {
	if _, ok := f[field]; ok {
		return true
	}
	base, ok := BaseField(field)
	if !ok {
		return false
	}
	_, ok = f[base]
	return ok
}

// BaseField returns the longest vocabulary tag prefixing field.
func BaseField(field string) (string, bool) {
	best := ""
	for _, tag := range append(NodalFields(), elementFields...) {
		if len(tag) > len(best) && len(field) >= len(tag) && field[:len(tag)] == tag {
			best = tag
		}
	}
	return best, best != ""
}

// FieldTable maps field → entity key → value.
type FieldTable map[string]map[int]float64

// StepResults holds the nodal and elemental tables of one step.
type StepResults struct {
	Nodal   FieldTable `yaml:"nodal,omitempty"`
	Element FieldTable `yaml:"element,omitempty"`
}

// Table returns the table for a category, or nil.
func (r *StepResults) Table(category string) FieldTable {
	switch category {
	case CategoryNodal:
		return r.Nodal
	case CategoryElement:
		return r.Element
	}
	return nil
}

// Results maps step name to its result tables.
type Results map[string]*StepResults

// Set stores one value, creating tables as needed.
func (r Results) Set(step, category, field string, key int, value float64) {
	sr, ok := r[step]
	if !ok {
		sr = &StepResults{}
		r[step] = sr
	}
	var table FieldTable
	switch category {
	case CategoryElement:
		if sr.Element == nil {
			sr.Element = FieldTable{}
		}
		table = sr.Element
	default:
		if sr.Nodal == nil {
			sr.Nodal = FieldTable{}
		}
		table = sr.Nodal
	}
	values, ok := table[field]
	if !ok {
		values = make(map[int]float64)
		table[field] = values
	}
	values[key] = value
}

// SetNodal stores a nodal field table for a step.
func (r Results) SetNodal(step, field string, values map[int]float64) {
	for k, v := range values {
		r.Set(step, CategoryNodal, field, k, v)
	}
}

// SetElement stores an elemental field table for a step.
func (r Results) SetElement(step, field string, values map[int]float64) {
	for k, v := range values {
		r.Set(step, CategoryElement, field, k, v)
	}
}

// Steps returns the step names holding results, sorted.
func (r Results) Steps() []string {
	steps := make([]string, 0, len(r))
	for s := range r {
		steps = append(steps, s)
	}
	sort.Strings(steps)
	return steps
}

// ResultSink receives extracted values. Results implements it.
type ResultSink interface {
	Set(step, category, field string, key int, value float64)
}
