// Package geom provides tolerance-based geometric keys used to
// deduplicate coincident nodes and elements.
//
// A geometric key rounds each coordinate to a fixed number of decimal
// places and joins them into a string. Two points within the rounding
// tolerance share a key, so re-inserting coincident geometry returns the
// entity that already exists.
package geom

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTolerance is the default number of decimal places.
const DefaultTolerance = 3

// Index maps geometric keys to entity keys.
type Index struct {
	tol      int
	scale    float64
	nodes    map[string]int
	elements map[string]int
}

// New creates an index rounding to tol decimal places.
// A negative tol falls back to DefaultTolerance.
func New(tol int) *Index {
	if tol < 0 {
		tol = DefaultTolerance
	}
	return &Index{
		tol:      tol,
		scale:    math.Pow10(tol),
		nodes:    make(map[string]int),
		elements: make(map[string]int),
	}
}

// Tolerance returns the number of decimal places.
func (ix *Index) Tolerance() int {
	return ix.tol
}

// Key returns the geometric key of a point.
func (ix *Index) Key(xyz [3]float64) string {
	var b strings.Builder
	for i, v := range xyz {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(ix.format(v))
	}
	return b.String()
}

func (ix *Index) format(v float64) string {
	r := math.Round(v*ix.scale) / ix.scale
	if r == 0 {
		// -0 and 0 must produce the same key
		r = 0
	}
	return strconv.FormatFloat(r, 'f', ix.tol, 64)
}

// EnsureNode returns the key registered at xyz, or registers next there.
// created reports whether next was used.
func (ix *Index) EnsureNode(xyz [3]float64, next int) (key int, created bool) {
	return ensure(ix.nodes, ix.Key(xyz), next)
}

// LookupNode returns the node registered at xyz.
func (ix *Index) LookupNode(xyz [3]float64) (int, bool) {
	key, ok := ix.nodes[ix.Key(xyz)]
	return key, ok
}

// EnsureElement returns the element registered at the centroid of pts,
// or registers next there.
func (ix *Index) EnsureElement(pts [][3]float64, next int) (key int, created bool) {
	return ensure(ix.elements, ix.Key(Centroid(pts)), next)
}

// LookupElement returns the element registered at the centroid of pts.
func (ix *Index) LookupElement(pts [][3]float64) (int, bool) {
	key, ok := ix.elements[ix.Key(Centroid(pts))]
	return key, ok
}

// NodeCount returns the number of registered node keys.
func (ix *Index) NodeCount() int { return len(ix.nodes) }

// ElementCount returns the number of registered element keys.
func (ix *Index) ElementCount() int { return len(ix.elements) }

func ensure(m map[string]int, gkey string, next int) (int, bool) {
	if key, ok := m[gkey]; ok {
		return key, false
	}
	m[gkey] = next
	return next, true
}

// Centroid returns the arithmetic mean of pts. Empty input yields the origin.
func Centroid(pts [][3]float64) [3]float64 {
	if len(pts) == 0 {
		return [3]float64{}
	}
	var sum r3.Vec
	for _, p := range pts {
		sum = r3.Add(sum, vec(p))
	}
	c := r3.Scale(1/float64(len(pts)), sum)
	return [3]float64{c.X, c.Y, c.Z}
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts [][3]float64) (lo, hi [3]float64) {
	if len(pts) == 0 {
		return lo, hi
	}
	box := r3.Box{Min: vec(pts[0]), Max: vec(pts[0])}
	for _, p := range pts[1:] {
		v := vec(p)
		box.Min = r3.Vec{X: math.Min(box.Min.X, v.X), Y: math.Min(box.Min.Y, v.Y), Z: math.Min(box.Min.Z, v.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, v.X), Y: math.Max(box.Max.Y, v.Y), Z: math.Max(box.Max.Z, v.Z)}
	}
	return [3]float64{box.Min.X, box.Min.Y, box.Min.Z}, [3]float64{box.Max.X, box.Max.Y, box.Max.Z}
}

func vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}
