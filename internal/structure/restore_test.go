package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

func TestRestore_KeepsKeysAndIndex(t *testing.T) {
	c := Contents{
		Nodes: map[int]*core.Node{
			0: {XYZ: [3]float64{0, 0, 0}},
			4: {XYZ: [3]float64{1, 0, 0}},
		},
		Elements: map[int]*core.Element{
			2: {Nodes: []int{0, 4}, Type: core.TrussElement},
		},
		Sets:       map[string]*core.Set{"ends": {Type: core.SetNode, Selection: []int{0, 4}}},
		Steps:      map[string]*core.Step{"s": core.NewGeneralStep("s", nil, nil)},
		StepsOrder: []string{"s"},
	}

	s, err := Restore("", "restored", c, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, s.NodeCount())
	key, ok := s.CheckNodeExists([3]float64{1, 0, 0})
	require.True(t, ok)
	assert.Equal(t, 4, key)
	assert.Equal(t, 5, s.AddNode([3]float64{2, 0, 0}), "new keys continue after the highest key")

	ekey, ok := s.CheckElementExists([]int{0, 4})
	require.True(t, ok)
	assert.Equal(t, 2, ekey)
	assert.Equal(t, "ends", s.Sets()["ends"].Name)
	assert.Equal(t, []string{"s"}, s.StepsOrder())
}

func TestRestore_Errors(t *testing.T) {
	tests := []struct {
		name string
		c    Contents
		want error
	}{
		{
			name: "element over missing node",
			c: Contents{
				Nodes:    map[int]*core.Node{0: {XYZ: [3]float64{0, 0, 0}}},
				Elements: map[int]*core.Element{0: {Nodes: []int{0, 1}}},
			},
			want: core.ErrUnknownNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore("", "", tt.c, Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Restore("", "", Contents{Nodes: map[int]*core.Node{
		0: {XYZ: [3]float64{0, 0, 0}},
		1: {XYZ: [3]float64{0, 0, 0.0001}},
	}}, Options{})
	assert.ErrorContains(t, err, "coincides")
}
