package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

func TestScaleDisplacements(t *testing.T) {
	in := map[string]*core.Displacement{
		"d": core.NewGeneralDisplacement("d", core.InSet("supports"), core.Value(2), nil, core.Value(-3), nil, nil, nil),
	}

	tests := []struct {
		name   string
		factor float64
		x, z   float64
	}{
		{"double", 2, 4, -6},
		{"identity", 1, 2, -3},
		{"negate", -0.5, -1, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScaleDisplacements(in, tt.factor)
			got := out["d"].Components
			require.NotNil(t, got["x"])
			require.NotNil(t, got["z"])
			assert.Equal(t, tt.x, *got["x"])
			assert.Nil(t, got["y"])
			assert.Equal(t, tt.z, *got["z"])
			assert.Len(t, got, len(in["d"].Components))
			assert.Equal(t, core.InSet("supports"), out["d"].Nodes)
		})
	}

	assert.Equal(t, 2.0, *in["d"].Components["x"], "input is not modified")
}

func TestScaleDisplacements_IdentityEqualsInput(t *testing.T) {
	in := map[string]*core.Displacement{
		"fixed": core.NewFixedDisplacement("fixed", core.Keys(1, 2)),
		"roll":  core.NewRollerDisplacementZ("roll", core.All()),
	}
	out := ScaleDisplacements(in, 1.0)
	for name, d := range in {
		assert.True(t, d.Components.Equal(out[name].Components), name)
	}
}

func TestScaleLoads(t *testing.T) {
	in := map[string]*core.Load{
		"p": core.NewPointLoad("p", core.Keys(3), core.Value(0), nil, core.Value(-1000), nil, nil, nil),
	}
	out := ScaleLoads(in, 1.5)

	assert.Equal(t, 0.0, *out["p"].Components["x"])
	assert.Nil(t, out["p"].Components["y"])
	assert.Equal(t, -1500.0, *out["p"].Components["z"])
	assert.Equal(t, -1000.0, *in["p"].Components["z"])
}
