package geometry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Vertex is a point with optional attributes.
type Vertex struct {
	XYZ   [3]float64     `yaml:"xyz"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

// Face is a polygon with optional attributes.
type Face struct {
	Vertices []int          `yaml:"vertices"`
	Attrs    map[string]any `yaml:"attrs,omitempty"`
}

// MeshData is an in-memory attributed mesh.
type MeshData struct {
	VertexMap map[int]Vertex `yaml:"vertices"`
	FaceMap   map[int]Face   `yaml:"faces"`
}

// NewMesh creates an empty mesh.
func NewMesh() *MeshData {
	return &MeshData{VertexMap: map[int]Vertex{}, FaceMap: map[int]Face{}}
}

// AddVertex adds a vertex with the next free key and returns the key.
func (m *MeshData) AddVertex(xyz [3]float64, attrs map[string]any) int {
	key := nextKey(m.VertexMap)
	m.VertexMap[key] = Vertex{XYZ: xyz, Attrs: attrs}
	return key
}

// AddFace adds a face with the next free key and returns the key.
func (m *MeshData) AddFace(vertices []int, attrs map[string]any) int {
	key := nextKey(m.FaceMap)
	m.FaceMap[key] = Face{Vertices: vertices, Attrs: attrs}
	return key
}

func (m *MeshData) Vertices() []int                      { return sortedKeys(m.VertexMap) }
func (m *MeshData) VertexCoordinates(key int) [3]float64 { return m.VertexMap[key].XYZ }
func (m *MeshData) Faces() []int                         { return sortedKeys(m.FaceMap) }
func (m *MeshData) FaceVertices(key int) []int           { return m.FaceMap[key].Vertices }
func (m *MeshData) VertexAttributes(key int) map[string]any {
	return m.VertexMap[key].Attrs
}
func (m *MeshData) FaceAttributes(key int) map[string]any {
	return m.FaceMap[key].Attrs
}

// Validate checks that every face references existing vertices.
func (m *MeshData) Validate() error {
	for _, fk := range m.Faces() {
		f := m.FaceMap[fk]
		if len(f.Vertices) < 3 {
			return fmt.Errorf("face %d: needs at least 3 vertices, got %d", fk, len(f.Vertices))
		}
		for _, vk := range f.Vertices {
			if _, ok := m.VertexMap[vk]; !ok {
				return fmt.Errorf("face %d: unknown vertex %d", fk, vk)
			}
		}
	}
	return nil
}

// NetworkData is an in-memory network.
type NetworkData struct {
	VertexMap map[int]Vertex `yaml:"vertices"`
	EdgeList  [][2]int       `yaml:"edges"`
}

func (n *NetworkData) Vertices() []int                      { return sortedKeys(n.VertexMap) }
func (n *NetworkData) VertexCoordinates(key int) [3]float64 { return n.VertexMap[key].XYZ }
func (n *NetworkData) Edges() [][2]int                      { return n.EdgeList }

// Validate checks that every edge references existing vertices.
func (n *NetworkData) Validate() error {
	for i, e := range n.EdgeList {
		for _, vk := range e {
			if _, ok := n.VertexMap[vk]; !ok {
				return fmt.Errorf("edge %d: unknown vertex %d", i, vk)
			}
		}
	}
	return nil
}

// VolMeshData is an in-memory volume mesh.
type VolMeshData struct {
	VertexMap map[int]Vertex `yaml:"vertices"`
	CellMap   map[int][]int  `yaml:"cells"`
}

func (v *VolMeshData) Vertices() []int                      { return sortedKeys(v.VertexMap) }
func (v *VolMeshData) VertexCoordinates(key int) [3]float64 { return v.VertexMap[key].XYZ }
func (v *VolMeshData) Cells() []int                         { return sortedKeys(v.CellMap) }
func (v *VolMeshData) CellVertices(key int) []int           { return v.CellMap[key] }

// Validate checks that every cell references existing vertices.
func (v *VolMeshData) Validate() error {
	for _, ck := range v.Cells() {
		for _, vk := range v.CellMap[ck] {
			if _, ok := v.VertexMap[vk]; !ok {
				return fmt.Errorf("cell %d: unknown vertex %d", ck, vk)
			}
		}
	}
	return nil
}

// Kind names a geometry document type.
type Kind string

// Document kinds.
const (
	KindMesh    Kind = "mesh"
	KindNetwork Kind = "network"
	KindVolMesh Kind = "volmesh"
)

// Document is the YAML form of a geometry file.
type Document struct {
	Kind     Kind           `yaml:"kind"`
	Vertices map[int]Vertex `yaml:"vertices"`
	Faces    map[int]Face   `yaml:"faces,omitempty"`
	Edges    [][2]int       `yaml:"edges,omitempty"`
	Cells    map[int][]int  `yaml:"cells,omitempty"`
}

// LoadFile reads a geometry document. The returned value is a
// *MeshData, *NetworkData or *VolMeshData depending on its kind.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geometry: %w", err)
	}
	return Parse(data)
}

// Parse decodes a geometry document.
func Parse(data []byte) (any, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	if doc.Vertices == nil {
		doc.Vertices = map[int]Vertex{}
	}

	switch doc.Kind {
	case KindMesh, "":
		m := &MeshData{VertexMap: doc.Vertices, FaceMap: doc.Faces}
		if m.FaceMap == nil {
			m.FaceMap = map[int]Face{}
		}
		return m, m.Validate()
	case KindNetwork:
		n := &NetworkData{VertexMap: doc.Vertices, EdgeList: doc.Edges}
		return n, n.Validate()
	case KindVolMesh:
		v := &VolMeshData{VertexMap: doc.Vertices, CellMap: doc.Cells}
		if v.CellMap == nil {
			v.CellMap = map[int][]int{}
		}
		return v, v.Validate()
	default:
		return nil, fmt.Errorf("unknown geometry kind %q (expected mesh, network or volmesh)", doc.Kind)
	}
}

func nextKey[T any](m map[int]T) int {
	next := 0
	for k := range m {
		if k >= next {
			next = k + 1
		}
	}
	return next
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
