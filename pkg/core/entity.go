package core

// Axes holds local axes of a node or element.
type Axes struct {
	EX [3]float64 `yaml:"ex"`
	EY [3]float64 `yaml:"ey"`
	EZ [3]float64 `yaml:"ez"`
}

// Node is a point of the finite element mesh.
type Node struct {
	Key  int        `yaml:"key"`
	XYZ  [3]float64 `yaml:"xyz"`
	Axes *Axes      `yaml:"axes,omitempty"`
}

// ElementType is the declared element type tag.
type ElementType string

// Element type tags understood by the bundled solvers.
const (
	BeamElement        ElementType = "BeamElement"
	TrussElement       ElementType = "TrussElement"
	SpringElement      ElementType = "SpringElement"
	ShellElement       ElementType = "ShellElement"
	MembraneElement    ElementType = "MembraneElement"
	SolidElement       ElementType = "SolidElement"
	TetrahedronElement ElementType = "TetrahedronElement"
	HexahedronElement  ElementType = "HexahedronElement"
)

// ElementFamily groups elements by node count.
type ElementFamily string

// Element families.
const (
	FamilyPoint ElementFamily = "point"
	FamilyLine  ElementFamily = "line"
	FamilyFace  ElementFamily = "face"
	FamilySolid ElementFamily = "solid"
)

// Element connects an ordered list of nodes.
type Element struct {
	Key      int         `yaml:"key"`
	Nodes    []int       `yaml:"nodes"`
	Type     ElementType `yaml:"type"`
	Axes     *Axes       `yaml:"axes,omitempty"`
	Thermal  bool        `yaml:"thermal,omitempty"`
	Acoustic bool        `yaml:"acoustic,omitempty"`
}

// Family derives the element family from its arity.
func (e *Element) Family() ElementFamily {
	switch n := len(e.Nodes); {
	case n <= 1:
		return FamilyPoint
	case n == 2:
		return FamilyLine
	case n <= 4:
		return FamilyFace
	default:
		return FamilySolid
	}
}

// SetType tags what a set selects.
type SetType string

// Set types.
const (
	SetNode           SetType = "node"
	SetElement        SetType = "element"
	SetSurfaceNode    SetType = "surface_node"
	SetSurfaceElement SetType = "surface_element"
)

// Valid reports whether t is a known set type.
func (t SetType) Valid() bool {
	switch t {
	case SetNode, SetElement, SetSurfaceNode, SetSurfaceElement:
		return true
	}
	return false
}

// SurfaceFace is one element side of a surface set.
type SurfaceFace struct {
	Element int    `yaml:"element"`
	Side    string `yaml:"side"`
}

// Set is a named selection of node or element keys.
// A set references entities, it does not own them.
type Set struct {
	Name      string        `yaml:"name"`
	Type      SetType       `yaml:"type"`
	Selection []int         `yaml:"selection,omitempty"`
	Surface   []SurfaceFace `yaml:"surface,omitempty"`
	Index     int           `yaml:"index"`
}

// Keys returns the entity keys referenced by the set, including the
// element keys of surface faces.
func (s *Set) Keys() []int {
	if len(s.Surface) == 0 {
		return s.Selection
	}
	keys := make([]int, 0, len(s.Selection)+len(s.Surface))
	keys = append(keys, s.Selection...)
	for _, f := range s.Surface {
		keys = append(keys, f.Element)
	}
	return keys
}

// TargetsElements reports whether the selection holds element keys.
func (s *Set) TargetsElements() bool {
	return s.Type == SetElement || s.Type == SetSurfaceElement
}
