package structure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/geometry"
)

// twoPanelMesh is a 3x2 vertex grid with two quads. The left edge is
// pinned, one corner carries a load, and the panels differ in thickness.
func twoPanelMesh() *geometry.MeshData {
	m := geometry.NewMesh()
	pinned := map[string]any{"ux": 0, "uy": 0, "uz": 0.0}
	m.AddVertex([3]float64{0, 0, 0}, pinned)
	m.AddVertex([3]float64{1, 0, 0}, nil)
	m.AddVertex([3]float64{2, 0, 0}, map[string]any{"l": []any{0, 0, -1000}})
	m.AddVertex([3]float64{0, 1, 0}, pinned)
	m.AddVertex([3]float64{1, 1, 0}, nil)
	m.AddVertex([3]float64{2, 1, 0}, nil)

	steel := func(thick float64) map[string]any {
		return map[string]any{"E": 210e9, "v": 0.3, "p": 7850, "thick": thick}
	}
	m.AddFace([]int{0, 1, 4, 3}, steel(0.01))
	m.AddFace([]int{1, 2, 5, 4}, steel(0.02))
	return m
}

func TestFromMesh(t *testing.T) {
	s, err := FromMesh(t.TempDir(), "panel", twoPanelMesh(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 6, s.NodeCount())
	assert.Equal(t, 2, s.ElementCount())
	for _, e := range s.Elements() {
		assert.Equal(t, core.ShellElement, e.Type)
	}

	t.Run("displacements", func(t *testing.T) {
		label := "0_0_0_-_-_-"
		require.Contains(t, s.Sets(), label)
		assert.Equal(t, []int{0, 3}, s.Sets()[label].Selection)

		d := s.Displacements()[label+"_nodes"]
		require.NotNil(t, d)
		assert.Equal(t, core.InSet(label), d.Nodes)
		assert.Equal(t, 0.0, *d.Components["x"])
		assert.Nil(t, d.Components["xx"])
		assert.Len(t, s.Displacements(), 1, "free vertices get no displacement")
	})

	t.Run("materials and sections", func(t *testing.T) {
		require.Len(t, s.Materials(), 1)
		for name, m := range s.Materials() {
			assert.Equal(t, "2.1e+11_0.3_7850_material", name)
			assert.Equal(t, 210e9, m.Params["E"])
			assert.Equal(t, 7850.0, m.Params["p"])
		}
		assert.Contains(t, s.Sections(), "0.01_section")
		assert.Contains(t, s.Sections(), "0.02_section")
		assert.Len(t, s.ElementProperties(), 2)
		ep := s.ElementProperties()["2.1e+11_0.3_7850,0.02"]
		require.NotNil(t, ep)
		assert.Equal(t, "0.02_section", ep.Section)
		assert.Equal(t, []int{1}, ep.Elements)
	})

	t.Run("loads", func(t *testing.T) {
		require.Len(t, s.Loads(), 1)
		l := s.Loads()["[0 0 -1000]_load"]
		require.NotNil(t, l)
		assert.Equal(t, core.Keys(2), l.Nodes)
		assert.Equal(t, -1000.0, *l.Components["z"])
	})

	t.Run("step", func(t *testing.T) {
		st := s.Steps()[FromMeshStep]
		require.NotNil(t, st)
		assert.Equal(t, []string{"0_0_0_-_-_-_nodes"}, st.Displacements)
		assert.Equal(t, []string{"[0 0 -1000]_load"}, st.Loads)
		assert.Empty(t, s.StepsOrder(), "order is never derived")
		assert.NoError(t, s.Validate())
	})
}

func TestFromMesh_SmallValuesStayDistinct(t *testing.T) {
	m := geometry.NewMesh()
	v := []int{
		m.AddVertex([3]float64{0, 0, 0}, map[string]any{"l": []any{0, 0, -0.0004}}),
		m.AddVertex([3]float64{1, 0, 0}, map[string]any{"l": []any{0, 0, -0.0002}}),
		m.AddVertex([3]float64{1, 1, 0}, map[string]any{"ux": math.Copysign(0, -1)}),
		m.AddVertex([3]float64{0, 1, 0}, map[string]any{"ux": 0.0}),
		m.AddVertex([3]float64{2, 0, 0}, nil),
	}
	m.AddFace([]int{v[0], v[1], v[2], v[3]}, map[string]any{"E": 210000, "v": 0.3, "p": 7.85e-9, "thick": 0.0004})
	m.AddFace([]int{v[1], v[4], v[2]}, map[string]any{"E": 210000, "v": 0.3, "p": 2.4e-9, "thick": 0.0004})

	s, err := FromMesh("", "tiny", m, Options{})
	require.NoError(t, err)

	require.Len(t, s.Materials(), 2)
	steel := s.Materials()["210000_0.3_7.85e-09_material"]
	require.NotNil(t, steel)
	assert.Equal(t, 7.85e-9, steel.Params["p"])
	concrete := s.Materials()["210000_0.3_2.4e-09_material"]
	require.NotNil(t, concrete)
	assert.Equal(t, 2.4e-9, concrete.Params["p"])

	require.Len(t, s.Sections(), 1)
	sec := s.Sections()["0.0004_section"]
	require.NotNil(t, sec)
	assert.Equal(t, 0.0004, sec.Geometry["t"])
	assert.Len(t, s.ElementProperties(), 2)

	require.Len(t, s.Loads(), 2)
	assert.Equal(t, -0.0004, *s.Loads()["[0 0 -0.0004]_load"].Components["z"])
	assert.Equal(t, -0.0002, *s.Loads()["[0 0 -0.0002]_load"].Components["z"])
	assert.Equal(t, core.Keys(1), s.Loads()["[0 0 -0.0002]_load"].Nodes)

	require.Len(t, s.Displacements(), 1, "-0 and 0 share one displacement")
	assert.Equal(t, []int{2, 3}, s.Sets()["0_-_-_-_-_-"].Selection)
}

func TestFromMesh_NonNumericAttribute(t *testing.T) {
	m := geometry.NewMesh()
	a := m.AddVertex([3]float64{0, 0, 0}, nil)
	b := m.AddVertex([3]float64{1, 0, 0}, nil)
	c := m.AddVertex([3]float64{0, 1, 0}, nil)
	m.AddFace([]int{a, b, c}, map[string]any{"thick": "thin"})

	_, err := FromMesh("", "", m, Options{})
	assert.ErrorContains(t, err, `attribute "thick"`)
}

func TestFromMesh_IncompleteMaterialSkipped(t *testing.T) {
	m := geometry.NewMesh()
	a := m.AddVertex([3]float64{0, 0, 0}, nil)
	b := m.AddVertex([3]float64{1, 0, 0}, nil)
	c := m.AddVertex([3]float64{0, 1, 0}, nil)
	m.AddFace([]int{a, b, c}, map[string]any{"E": 1e9, "thick": 0.1})

	s, err := FromMesh("", "", m, Options{})
	require.NoError(t, err)
	assert.Empty(t, s.Materials())
	assert.Empty(t, s.ElementProperties())
	assert.Len(t, s.Sections(), 1)
}

func TestAddNodesElementsFromMesh_Repeated(t *testing.T) {
	s := newTestStructure(t)
	mesh := twoPanelMesh()

	first, err := s.AddNodesElementsFromMesh(mesh, core.MembraneElement, BulkOptions{Elset: "skin"})
	require.NoError(t, err)
	second, err := s.AddNodesElementsFromMesh(mesh, core.MembraneElement, BulkOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second, "overlapping geometry maps to existing keys")
	assert.Equal(t, 6, s.NodeCount())
	assert.Equal(t, 2, s.ElementCount())
	assert.Equal(t, []int{0, 1}, s.Sets()["skin"].Selection)
	assert.Equal(t, core.SetElement, s.Sets()["skin"].Type)
}

func TestAddNodesElementsFromNetwork(t *testing.T) {
	s := newTestStructure(t)
	net := &geometry.NetworkData{
		VertexMap: map[int]geometry.Vertex{
			0: {XYZ: [3]float64{0, 0, 0}},
			1: {XYZ: [3]float64{0, 0, 3}},
			2: {XYZ: [3]float64{4, 0, 3}},
		},
		EdgeList: [][2]int{{0, 1}, {1, 2}},
	}
	axes := &core.Axes{EX: [3]float64{0, 1, 0}}

	keys, err := s.AddNodesElementsFromNetwork(net, core.BeamElement, BulkOptions{Axes: axes, Elset: "frame"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, keys)
	for _, k := range keys {
		assert.Same(t, axes, s.Elements()[k].Axes)
		assert.Equal(t, core.FamilyLine, s.Elements()[k].Family())
	}
}

func TestAddNodesElementsFromVolMesh(t *testing.T) {
	s := newTestStructure(t)
	vol := &geometry.VolMeshData{
		VertexMap: map[int]geometry.Vertex{
			0: {XYZ: [3]float64{0, 0, 0}},
			1: {XYZ: [3]float64{1, 0, 0}},
			2: {XYZ: [3]float64{0, 1, 0}},
			3: {XYZ: [3]float64{0, 0, 1}},
		},
		CellMap: map[int][]int{0: {0, 1, 2, 3}},
	}

	keys, err := s.AddNodesElementsFromVolMesh(vol, core.TetrahedronElement, BulkOptions{Thermal: true})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, s.Elements()[keys[0]].Thermal)
	assert.Equal(t, 4, s.NodeCount())
}
