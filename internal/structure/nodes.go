package structure

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapfea/internal/geom"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// NodeStore owns the nodes of a structure. Nodes are deduplicated by
// geometric key and never deleted.
type NodeStore struct {
	index *geom.Index
	nodes map[int]*core.Node
	next  int
}

func newNodeStore(index *geom.Index) *NodeStore {
	return &NodeStore{index: index, nodes: make(map[int]*core.Node)}
}

// Add returns the key of the node at xyz, creating it if needed.
func (ns *NodeStore) Add(xyz [3]float64) (key int, created bool) {
	key, created = ns.index.EnsureNode(xyz, ns.next)
	if created {
		ns.nodes[key] = &core.Node{Key: key, XYZ: xyz}
		ns.next++
	}
	return key, created
}

// insert stores a node under its own key.
func (ns *NodeStore) insert(n *core.Node) error {
	if _, exists := ns.nodes[n.Key]; exists {
		return fmt.Errorf("node %d: key already used", n.Key)
	}
	if key, created := ns.index.EnsureNode(n.XYZ, n.Key); !created {
		return fmt.Errorf("node %d: coincides with node %d", n.Key, key)
	}
	ns.nodes[n.Key] = n
	if n.Key >= ns.next {
		ns.next = n.Key + 1
	}
	return nil
}

// Lookup returns the key of the node at xyz without creating one.
func (ns *NodeStore) Lookup(xyz [3]float64) (int, bool) {
	return ns.index.LookupNode(xyz)
}

// Get returns a node by key.
func (ns *NodeStore) Get(key int) (*core.Node, bool) {
	n, ok := ns.nodes[key]
	return n, ok
}

// Count returns the number of nodes.
func (ns *NodeStore) Count() int { return len(ns.nodes) }

// Keys returns the node keys in ascending order.
func (ns *NodeStore) Keys() []int {
	keys := make([]int, 0, len(ns.nodes))
	for k := range ns.nodes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// --- Structure delegation ---

// AddNode adds a node at xyz and returns its key. Coincident points
// within the geometric tolerance return the existing key.
func (s *Structure) AddNode(xyz [3]float64) int {
	key, created := s.nodes.Add(xyz)
	if !created {
		s.logger.Debug("node exists", "key", key, "xyz", xyz)
	}
	return key
}

// AddNodes adds several nodes and returns their keys in input order.
func (s *Structure) AddNodes(points [][3]float64) []int {
	keys := make([]int, len(points))
	for i, p := range points {
		keys[i] = s.AddNode(p)
	}
	return keys
}

// CheckNodeExists returns the key of the node at xyz, if any.
func (s *Structure) CheckNodeExists(xyz [3]float64) (int, bool) {
	return s.nodes.Lookup(xyz)
}

// EditNodeAxes sets the local axes of a node. Axes are the only node
// attribute that may change after creation.
func (s *Structure) EditNodeAxes(key int, axes *core.Axes) error {
	n, ok := s.nodes.Get(key)
	if !ok {
		return fmt.Errorf("node %d: %w", key, core.ErrUnknownNode)
	}
	n.Axes = axes
	return nil
}

// NodeCount returns the number of nodes.
func (s *Structure) NodeCount() int { return s.nodes.Count() }

// NodeXYZ returns the coordinates of a node.
func (s *Structure) NodeXYZ(key int) ([3]float64, error) {
	n, ok := s.nodes.Get(key)
	if !ok {
		return [3]float64{}, fmt.Errorf("node %d: %w", key, core.ErrUnknownNode)
	}
	return n.XYZ, nil
}

// NodesXYZ returns the coordinates of the given nodes, or of every node
// in key order when keys is empty.
func (s *Structure) NodesXYZ(keys ...int) ([][3]float64, error) {
	if len(keys) == 0 {
		keys = s.nodes.Keys()
	}
	out := make([][3]float64, len(keys))
	for i, k := range keys {
		xyz, err := s.NodeXYZ(k)
		if err != nil {
			return nil, err
		}
		out[i] = xyz
	}
	return out, nil
}

// NodeBounds returns the bounding box of all nodes.
func (s *Structure) NodeBounds() (lo, hi [3]float64) {
	pts, _ := s.NodesXYZ()
	return geom.Bounds(pts)
}
