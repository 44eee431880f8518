package structure

import "github.com/leapstack-labs/leapfea/pkg/core"

// ScaleDisplacements returns copies of displacements with every
// constrained component multiplied by factor. Free components stay free.
func ScaleDisplacements(displacements map[string]*core.Displacement, factor float64) map[string]*core.Displacement {
	out := make(map[string]*core.Displacement, len(displacements))
	for name, d := range displacements {
		scaled := *d
		scaled.Components = d.Components.Scale(factor)
		out[name] = &scaled
	}
	return out
}

// ScaleLoads returns copies of loads with every component multiplied by
// factor.
func ScaleLoads(loads map[string]*core.Load, factor float64) map[string]*core.Load {
	out := make(map[string]*core.Load, len(loads))
	for name, l := range loads {
		scaled := *l
		scaled.Components = l.Components.Scale(factor)
		out[name] = &scaled
	}
	return out
}
