package structure

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapfea/internal/geom"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// ElementStore owns the elements of a structure. Elements are
// deduplicated by the geometric key of their centroid.
type ElementStore struct {
	index    *geom.Index
	elements map[int]*core.Element
	next     int
}

func newElementStore(index *geom.Index) *ElementStore {
	return &ElementStore{index: index, elements: make(map[int]*core.Element)}
}

// Add returns the key of the element with centroid of pts, creating it
// from proto if needed.
func (es *ElementStore) Add(pts [][3]float64, proto core.Element) (key int, created bool) {
	key, created = es.index.EnsureElement(pts, es.next)
	if created {
		proto.Key = key
		es.elements[key] = &proto
		es.next++
	}
	return key, created
}

func (es *ElementStore) insert(e *core.Element, pts [][3]float64) error {
	if _, exists := es.elements[e.Key]; exists {
		return fmt.Errorf("element %d: key already used", e.Key)
	}
	if key, created := es.index.EnsureElement(pts, e.Key); !created {
		return fmt.Errorf("element %d: shares its centroid with element %d", e.Key, key)
	}
	es.elements[e.Key] = e
	if e.Key >= es.next {
		es.next = e.Key + 1
	}
	return nil
}

// Get returns an element by key.
func (es *ElementStore) Get(key int) (*core.Element, bool) {
	e, ok := es.elements[key]
	return e, ok
}

// Count returns the number of elements.
func (es *ElementStore) Count() int { return len(es.elements) }

// Keys returns the element keys in ascending order.
func (es *ElementStore) Keys() []int {
	keys := make([]int, 0, len(es.elements))
	for k := range es.elements {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// ElementOption configures an element at creation.
type ElementOption func(*core.Element)

// WithAxes sets the local axes of the element.
func WithAxes(axes *core.Axes) ElementOption {
	return func(e *core.Element) { e.Axes = axes }
}

// WithThermal marks the element as a thermal element.
func WithThermal() ElementOption {
	return func(e *core.Element) { e.Thermal = true }
}

// WithAcoustic marks the element as an acoustic element.
func WithAcoustic() ElementOption {
	return func(e *core.Element) { e.Acoustic = true }
}

// --- Structure delegation ---

// AddElement adds an element over existing nodes and returns its key.
// An element whose centroid coincides with an existing element returns
// that element's key unchanged. Unknown node keys fail without
// creating anything.
func (s *Structure) AddElement(nodes []int, typ core.ElementType, opts ...ElementOption) (int, error) {
	pts, err := s.elementPoints(nodes)
	if err != nil {
		return 0, err
	}
	proto := core.Element{Nodes: append([]int(nil), nodes...), Type: typ}
	for _, opt := range opts {
		opt(&proto)
	}
	key, created := s.elements.Add(pts, proto)
	if !created {
		s.logger.Debug("element exists", "key", key, "nodes", nodes)
	}
	return key, nil
}

// AddElements adds several elements of one type and returns their keys
// in input order. It stops at the first failure.
func (s *Structure) AddElements(elements [][]int, typ core.ElementType, opts ...ElementOption) ([]int, error) {
	keys := make([]int, 0, len(elements))
	for i, nodes := range elements {
		key, err := s.AddElement(nodes, typ, opts...)
		if err != nil {
			return keys, fmt.Errorf("element %d of %d: %w", i, len(elements), err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// CheckElementExists returns the key of the element over nodes, if any.
func (s *Structure) CheckElementExists(nodes []int) (int, bool) {
	pts, err := s.elementPoints(nodes)
	if err != nil {
		return 0, false
	}
	return s.index.LookupElement(pts)
}

// ElementCount returns the number of elements.
func (s *Structure) ElementCount() int { return s.elements.Count() }

// ElementCentroid returns the centroid of an element.
func (s *Structure) ElementCentroid(key int) ([3]float64, error) {
	e, ok := s.elements.Get(key)
	if !ok {
		return [3]float64{}, fmt.Errorf("element %d: %w", key, core.ErrUnknownElement)
	}
	pts, err := s.elementPoints(e.Nodes)
	if err != nil {
		return [3]float64{}, err
	}
	return geom.Centroid(pts), nil
}

func (s *Structure) elementPoints(nodes []int) ([][3]float64, error) {
	if len(nodes) == 0 {
		return nil, core.ErrEmptyElement
	}
	pts := make([][3]float64, len(nodes))
	for i, k := range nodes {
		n, ok := s.nodes.Get(k)
		if !ok {
			return nil, fmt.Errorf("node %d: %w", k, core.ErrUnknownNode)
		}
		pts[i] = n.XYZ
	}
	return pts, nil
}
