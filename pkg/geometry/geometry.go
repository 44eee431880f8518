// Package geometry defines the contract between geometry sources (meshes,
// networks, volume meshes) and the structure model, together with simple
// in-memory implementations that can be loaded from YAML.
package geometry

// Vertices exposes keyed 3D points.
type Vertices interface {
	// Vertices returns every vertex key.
	Vertices() []int
	// VertexCoordinates returns the coordinates of a vertex.
	VertexCoordinates(key int) [3]float64
}

// Mesh is a polygonal surface.
type Mesh interface {
	Vertices
	// Faces returns every face key.
	Faces() []int
	// FaceVertices returns the ordered vertex keys of a face.
	FaceVertices(key int) []int
}

// AttributedMesh is a mesh carrying per-vertex and per-face attributes.
type AttributedMesh interface {
	Mesh
	// VertexAttributes returns the attributes of a vertex, or nil.
	VertexAttributes(key int) map[string]any
	// FaceAttributes returns the attributes of a face, or nil.
	FaceAttributes(key int) map[string]any
}

// Network is a graph of line segments.
type Network interface {
	Vertices
	// Edges returns every edge as a vertex key pair.
	Edges() [][2]int
}

// VolMesh is a volumetric cell complex.
type VolMesh interface {
	Vertices
	// Cells returns every cell key.
	Cells() []int
	// CellVertices returns the ordered vertex keys of a cell.
	CellVertices(key int) []int
}
