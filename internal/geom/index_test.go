package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Key(t *testing.T) {
	tests := []struct {
		name string
		tol  int
		xyz  [3]float64
		want string
	}{
		{"default precision", 3, [3]float64{1, 2.5, -3}, "1.000,2.500,-3.000"},
		{"rounds within tolerance", 3, [3]float64{0.00049, 1.0004, 2.9996}, "0.000,1.000,3.000"},
		{"negative zero collapses", 3, [3]float64{-0.0001, -0, 0}, "0.000,0.000,0.000"},
		{"coarse tolerance", 1, [3]float64{1.26, 0, 0}, "1.3,0.0,0.0"},
		{"integer tolerance", 0, [3]float64{1.4, 1.6, -2.2}, "1,2,-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.tol).Key(tt.xyz))
		})
	}
}

func TestIndex_NegativeToleranceUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultTolerance, New(-1).Tolerance())
}

func TestIndex_EnsureNodeIsIdempotent(t *testing.T) {
	ix := New(3)

	key, created := ix.EnsureNode([3]float64{1, 1, 0}, 0)
	require.True(t, created)
	assert.Equal(t, 0, key)

	key, created = ix.EnsureNode([3]float64{1.0001, 0.9999, 0}, 1)
	assert.False(t, created, "coincident point within tolerance must not register")
	assert.Equal(t, 0, key)
	assert.Equal(t, 1, ix.NodeCount())

	key, created = ix.EnsureNode([3]float64{2, 1, 0}, 1)
	assert.True(t, created)
	assert.Equal(t, 1, key)
}

func TestIndex_LookupNode(t *testing.T) {
	ix := New(3)
	ix.EnsureNode([3]float64{0, 0, 1}, 7)

	key, ok := ix.LookupNode([3]float64{0, 0, 1.0002})
	require.True(t, ok)
	assert.Equal(t, 7, key)

	_, ok = ix.LookupNode([3]float64{0, 0, 2})
	assert.False(t, ok)
}

func TestIndex_EnsureElementUsesCentroid(t *testing.T) {
	ix := New(3)
	a := [][3]float64{{0, 0, 0}, {2, 0, 0}}
	reversed := [][3]float64{{2, 0, 0}, {0, 0, 0}}

	key, created := ix.EnsureElement(a, 0)
	require.True(t, created)
	assert.Equal(t, 0, key)

	// Reordered nodes share the centroid and collide.
	key, created = ix.EnsureElement(reversed, 1)
	assert.False(t, created)
	assert.Equal(t, 0, key)

	found, ok := ix.LookupElement(a)
	require.True(t, ok)
	assert.Equal(t, 0, found)
	assert.Equal(t, 1, ix.ElementCount())
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, [3]float64{}, Centroid(nil))
	assert.Equal(t, [3]float64{1, 1, 0}, Centroid([][3]float64{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}))
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds([][3]float64{{1, -1, 0}, {-2, 3, 5}, {0, 0, -4}})
	assert.Equal(t, [3]float64{-2, -1, -4}, lo)
	assert.Equal(t, [3]float64{1, 3, 5}, hi)
}
