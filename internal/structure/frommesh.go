package structure

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfea/internal/grouping"
	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/geometry"
)

// Attribute names read by FromMesh.
var (
	displacementAttrs = []string{"ux", "uy", "uz", "urx", "ury", "urz"}
	materialAttrs     = []string{"E", "v", "p"}
)

const (
	thicknessAttr = "thick"
	loadAttr      = "l"

	// FromMeshStep names the step created by FromMesh.
	FromMeshStep = "Structure from Mesh"
)

// FromMesh builds a shell structure from an attributed mesh.
//
// Vertices sharing the same ux..urz tuple become a node set with a
// displacement, except vertices with no fixity at all. Faces sharing
// (E, v, p) get a material, faces sharing a thickness get a shell
// section, and each non-empty (material, thickness) intersection gets
// element properties. Vertices sharing a load vector "l" get a point
// load. One general step applies every derived displacement and load.
// Groups compare attribute values exactly; entity values are taken from
// the attributes themselves, never parsed back from the labels.
func FromMesh(path, name string, mesh geometry.AttributedMesh, opts Options) (*Structure, error) {
	s := New(path, name, opts)
	if _, err := s.AddNodesElementsFromMesh(mesh, core.ShellElement, BulkOptions{}); err != nil {
		return nil, fmt.Errorf("from mesh: %w", err)
	}
	g := grouping.New(grouping.Exact)

	vertexAttrs := make(map[int]grouping.Attributes)
	nodeOf := make(map[int]int)
	for _, vk := range mesh.Vertices() {
		vertexAttrs[vk] = normaliseAttributes(mesh.VertexAttributes(vk))
		key, ok := s.CheckNodeExists(mesh.VertexCoordinates(vk))
		if !ok {
			return nil, fmt.Errorf("from mesh: vertex %d: %w", vk, core.ErrUnknownNode)
		}
		nodeOf[vk] = key
	}
	faceAttrs := make(map[int]grouping.Attributes)
	elementOf := make(map[int]int)
	for _, fk := range mesh.Faces() {
		faceAttrs[fk] = normaliseAttributes(mesh.FaceAttributes(fk))
		nodes, err := s.resolveNodes(mesh, mesh.FaceVertices(fk))
		if err != nil {
			return nil, fmt.Errorf("from mesh: face %d: %w", fk, err)
		}
		key, ok := s.CheckElementExists(nodes)
		if !ok {
			return nil, fmt.Errorf("from mesh: face %d: %w", fk, core.ErrUnknownElement)
		}
		elementOf[fk] = key
	}

	displacements, err := s.displacementsFromGroups(g.ByAttributes(vertexAttrs, displacementAttrs), vertexAttrs, nodeOf)
	if err != nil {
		return nil, err
	}
	if err := s.propertiesFromGroups(g, faceAttrs, elementOf); err != nil {
		return nil, err
	}
	loads, err := s.loadsFromGroups(g.ByAttribute(vertexAttrs, loadAttr), vertexAttrs, nodeOf)
	if err != nil {
		return nil, err
	}
	if err := s.AddStep(core.NewGeneralStep(FromMeshStep, displacements, loads)); err != nil {
		return nil, err
	}
	s.logger.Info("structure from mesh",
		"nodes", s.NodeCount(),
		"elements", s.ElementCount(),
		"displacements", len(displacements),
		"loads", len(loads))
	return s, nil
}

func (s *Structure) displacementsFromGroups(groups grouping.Groups, attrs map[int]grouping.Attributes, nodeOf map[int]int) ([]string, error) {
	free := grouping.AllMissing(len(displacementAttrs))
	var names []string
	for _, label := range groups.Labels() {
		if label == free {
			continue
		}
		d, err := numberAttrs(attrs[groups[label][0]], displacementAttrs)
		if err != nil {
			return nil, fmt.Errorf("from mesh: displacement: %w", err)
		}
		if err := s.AddSet(label, core.SetNode, mapKeys(groups[label], nodeOf)); err != nil {
			return nil, err
		}
		name := label + "_nodes"
		disp := core.NewGeneralDisplacement(name, core.InSet(label), d[0], d[1], d[2], d[3], d[4], d[5])
		if err := s.AddDisplacement(disp); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *Structure) propertiesFromGroups(g *grouping.Grouper, faceAttrs map[int]grouping.Attributes, elementOf map[int]int) error {
	materials := g.ByAttributes(faceAttrs, materialAttrs)
	for _, label := range materials.Labels() {
		m, err := numberAttrs(faceAttrs[materials[label][0]], materialAttrs)
		if err != nil {
			return fmt.Errorf("from mesh: material: %w", err)
		}
		if m[0] == nil || m[1] == nil || m[2] == nil {
			s.logger.Warn("faces without complete material", "label", label, "faces", len(materials[label]))
			delete(materials, label)
			continue
		}
		if err := s.AddMaterial(core.NewElasticIsotropic(label+"_material", *m[0], *m[1], *m[2])); err != nil {
			return err
		}
	}

	thicknesses := g.ByAttribute(faceAttrs, thicknessAttr)
	for _, label := range thicknesses.Labels() {
		t, err := numberAttrs(faceAttrs[thicknesses[label][0]], []string{thicknessAttr})
		if err != nil {
			return fmt.Errorf("from mesh: section: %w", err)
		}
		if err := s.AddSection(core.NewShellSection(label+"_section", *t[0])); err != nil {
			return err
		}
	}

	combined := grouping.CombineAllSets(materials, thicknesses)
	for _, label := range combined.Labels() {
		mat, sec, _ := strings.Cut(label, grouping.PairDelimiter)
		ep := &core.ElementProperties{
			Name:     label,
			Material: mat + "_material",
			Section:  sec + "_section",
			Elements: mapKeys(combined[label], elementOf),
		}
		if err := s.AddElementProperties(ep); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) loadsFromGroups(groups grouping.Groups, attrs map[int]grouping.Attributes, nodeOf map[int]int) ([]string, error) {
	var names []string
	for _, label := range groups.Labels() {
		members := groups[label]
		vec, ok := attrs[members[0]][loadAttr].([]float64)
		if !ok || len(vec) < 3 {
			return nil, fmt.Errorf("from mesh: load %q is not a 3-vector", label)
		}
		name := label + "_load"
		load := core.NewPointLoad(name, core.Keys(mapKeys(members, nodeOf)...),
			core.Value(vec[0]), core.Value(vec[1]), core.Value(vec[2]), nil, nil, nil)
		if err := s.AddLoad(load); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// numberAttrs reads the named numeric attributes. Absent values come
// back as nil.
func numberAttrs(attrs grouping.Attributes, names []string) ([]*float64, error) {
	out := make([]*float64, len(names))
	for i, name := range names {
		v, ok := attrs[name]
		if !ok || v == nil {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("attribute %q: %v is not a number", name, v)
		}
		out[i] = &f
	}
	return out, nil
}

// normaliseAttributes converts numeric attribute values to float64 and
// numeric lists to []float64 so that equal values group together
// whatever their decoded type.
func normaliseAttributes(in map[string]any) grouping.Attributes {
	out := make(grouping.Attributes, len(in))
	for k, v := range in {
		out[k] = normaliseValue(v)
	}
	return out
}

func normaliseValue(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, ok := normaliseValue(e).(float64)
			if !ok {
				return v
			}
			out[i] = f
		}
		return out
	}
	return v
}

func mapKeys(keys []int, to map[int]int) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = to[k]
	}
	return out
}
