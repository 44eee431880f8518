package structure

import (
	"fmt"

	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/geometry"
)

// BulkOptions configures the elements created from a geometry source.
type BulkOptions struct {
	// Elset, when set, names an element set collecting the created keys.
	Elset    string
	Thermal  bool
	Acoustic bool
	Axes     *core.Axes
}

func (o BulkOptions) elementOptions() []ElementOption {
	var opts []ElementOption
	if o.Thermal {
		opts = append(opts, WithThermal())
	}
	if o.Acoustic {
		opts = append(opts, WithAcoustic())
	}
	if o.Axes != nil {
		opts = append(opts, WithAxes(o.Axes))
	}
	return opts
}

// addVertices adds every vertex of src in ascending key order and maps
// vertex keys to node keys.
func (s *Structure) addVertices(src geometry.Vertices) map[int]int {
	vkeys := src.Vertices()
	nodeOf := make(map[int]int, len(vkeys))
	for _, vk := range sortedInts(vkeys) {
		nodeOf[vk] = s.AddNode(src.VertexCoordinates(vk))
	}
	return nodeOf
}

// resolveNodes finds the node keys of already-added vertices by geometry.
func (s *Structure) resolveNodes(src geometry.Vertices, vertices []int) ([]int, error) {
	nodes := make([]int, len(vertices))
	for i, vk := range vertices {
		xyz := src.VertexCoordinates(vk)
		key, ok := s.CheckNodeExists(xyz)
		if !ok {
			return nil, fmt.Errorf("vertex %d at %v: %w", vk, xyz, core.ErrUnknownNode)
		}
		nodes[i] = key
	}
	return nodes, nil
}

func (s *Structure) addBulk(src geometry.Vertices, cells [][]int, typ core.ElementType, opts BulkOptions) ([]int, error) {
	s.addVertices(src)
	eopts := opts.elementOptions()
	ekeys := make([]int, 0, len(cells))
	for _, cell := range cells {
		nodes, err := s.resolveNodes(src, cell)
		if err != nil {
			return ekeys, err
		}
		key, err := s.AddElement(nodes, typ, eopts...)
		if err != nil {
			return ekeys, err
		}
		ekeys = append(ekeys, key)
	}
	if opts.Elset != "" {
		if err := s.AddSet(opts.Elset, core.SetElement, ekeys); err != nil {
			return ekeys, err
		}
	}
	s.logger.Debug("added geometry", "vertices", len(src.Vertices()), "elements", len(ekeys), "type", typ)
	return ekeys, nil
}

// AddNodesElementsFromMesh adds the vertices and faces of a mesh and
// returns the element keys in face order.
func (s *Structure) AddNodesElementsFromMesh(mesh geometry.Mesh, typ core.ElementType, opts BulkOptions) ([]int, error) {
	faces := mesh.Faces()
	cells := make([][]int, len(faces))
	for i, fk := range faces {
		cells[i] = mesh.FaceVertices(fk)
	}
	return s.addBulk(mesh, cells, typ, opts)
}

// AddNodesElementsFromNetwork adds the vertices and edges of a network
// and returns the element keys in edge order.
func (s *Structure) AddNodesElementsFromNetwork(network geometry.Network, typ core.ElementType, opts BulkOptions) ([]int, error) {
	edges := network.Edges()
	cells := make([][]int, len(edges))
	for i, e := range edges {
		cells[i] = []int{e[0], e[1]}
	}
	return s.addBulk(network, cells, typ, opts)
}

// AddNodesElementsFromVolMesh adds the vertices and cells of a volume
// mesh and returns the element keys in cell order.
func (s *Structure) AddNodesElementsFromVolMesh(volmesh geometry.VolMesh, typ core.ElementType, opts BulkOptions) ([]int, error) {
	keys := volmesh.Cells()
	cells := make([][]int, len(keys))
	for i, ck := range keys {
		cells[i] = volmesh.CellVertices(ck)
	}
	return s.addBulk(volmesh, cells, typ, opts)
}
