package geometry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meshYAML = `
kind: mesh
vertices:
  0: {xyz: [0, 0, 0], attrs: {ux: 0.0, uy: 0.0, uz: 0.0}}
  1: {xyz: [1, 0, 0]}
  2: {xyz: [1, 1, 0], attrs: {l: [0, 0, -1000]}}
  3: {xyz: [0, 1, 0]}
faces:
  0: {vertices: [0, 1, 2, 3], attrs: {E: 210.0e9, v: 0.3, p: 7850.0, thick: 0.01}}
`

func TestParse_Mesh(t *testing.T) {
	g, err := Parse([]byte(meshYAML))
	require.NoError(t, err)

	m, ok := g.(*MeshData)
	require.True(t, ok, "expected *MeshData, got %T", g)

	assert.Equal(t, []int{0, 1, 2, 3}, m.Vertices())
	assert.Equal(t, [3]float64{1, 1, 0}, m.VertexCoordinates(2))
	assert.Equal(t, []int{0}, m.Faces())
	assert.Equal(t, []int{0, 1, 2, 3}, m.FaceVertices(0))
	assert.Equal(t, 0.3, m.FaceAttributes(0)["v"])
	assert.Nil(t, m.VertexAttributes(1))
}

func TestParse_NetworkAndVolMesh(t *testing.T) {
	g, err := Parse([]byte(`
kind: network
vertices:
  0: {xyz: [0, 0, 0]}
  1: {xyz: [0, 0, 3]}
edges: [[0, 1]]
`))
	require.NoError(t, err)
	n, ok := g.(*NetworkData)
	require.True(t, ok)
	assert.Equal(t, [][2]int{{0, 1}}, n.Edges())

	g, err = Parse([]byte(`
kind: volmesh
vertices:
  0: {xyz: [0, 0, 0]}
  1: {xyz: [1, 0, 0]}
  2: {xyz: [0, 1, 0]}
  3: {xyz: [0, 0, 1]}
cells:
  0: [0, 1, 2, 3]
`))
	require.NoError(t, err)
	v, ok := g.(*VolMeshData)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3}, v.CellVertices(0))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		errSubstr string
	}{
		{"unknown kind", "kind: blob\n", "unknown geometry kind"},
		{"face with unknown vertex", "vertices: {0: {xyz: [0,0,0]}}\nfaces: {0: {vertices: [0, 1, 2]}}\n", "unknown vertex 1"},
		{"degenerate face", "vertices: {0: {xyz: [0,0,0]}}\nfaces: {0: {vertices: [0]}}\n", "at least 3 vertices"},
		{"edge with unknown vertex", "kind: network\nvertices: {0: {xyz: [0,0,0]}}\nedges: [[0, 4]]\n", "unknown vertex 4"},
		{"malformed yaml", "kind: [", "parse geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(meshYAML), 0o600))

	g, err := LoadFile(path)
	require.NoError(t, err)
	assert.IsType(t, &MeshData{}, g)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMeshData_AddVertexAndFace(t *testing.T) {
	m := NewMesh()
	a := m.AddVertex([3]float64{0, 0, 0}, nil)
	b := m.AddVertex([3]float64{1, 0, 0}, nil)
	c := m.AddVertex([3]float64{0, 1, 0}, nil)
	f := m.AddFace([]int{a, b, c}, map[string]any{"thick": 0.1})

	assert.Equal(t, []int{0, 1, 2}, []int{a, b, c})
	assert.Equal(t, 0, f)
	assert.NoError(t, m.Validate())
}
