package core

// Component axes shared by displacements and loads.
var componentAxes = []string{"x", "y", "z", "xx", "yy", "zz"}

// ComponentAxes returns the six component axes in canonical order.
func ComponentAxes() []string {
	out := make([]string, len(componentAxes))
	copy(out, componentAxes)
	return out
}

// Components maps an axis to a magnitude. A nil magnitude means the
// axis is unconstrained (displacements) or absent (loads).
type Components map[string]*float64

// Value returns a pointer to v, for building component maps.
func Value(v float64) *float64 { return &v }

// Scale returns a new mapping with the same keys, non-nil magnitudes
// multiplied by factor and nil entries preserved.
func (c Components) Scale(factor float64) Components {
	out := make(Components, len(c))
	for axis, v := range c {
		if v == nil {
			out[axis] = nil
			continue
		}
		out[axis] = Value(*v * factor)
	}
	return out
}

// Clone returns a deep copy.
func (c Components) Clone() Components {
	return c.Scale(1)
}

// Equal reports whether both mappings have the same keys and values.
func (c Components) Equal(o Components) bool {
	if len(c) != len(o) {
		return false
	}
	for axis, v := range c {
		w, ok := o[axis]
		if !ok {
			return false
		}
		if (v == nil) != (w == nil) {
			return false
		}
		if v != nil && *v != *w {
			return false
		}
	}
	return true
}

func components(vals [6]*float64) Components {
	c := make(Components, len(componentAxes))
	for i, axis := range componentAxes {
		c[axis] = vals[i]
	}
	return c
}

// Displacement is a named boundary condition applied to nodes.
type Displacement struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Nodes      Selection  `yaml:"nodes"`
	Components Components `yaml:"components"`
}

// NewGeneralDisplacement creates a displacement with explicit components.
func NewGeneralDisplacement(name string, nodes Selection, x, y, z, xx, yy, zz *float64) *Displacement {
	return &Displacement{
		Name:       name,
		Type:       "GeneralDisplacement",
		Nodes:      nodes,
		Components: components([6]*float64{x, y, z, xx, yy, zz}),
	}
}

// NewFixedDisplacement restrains all six degrees of freedom.
func NewFixedDisplacement(name string, nodes Selection) *Displacement {
	d := NewGeneralDisplacement(name, nodes, Value(0), Value(0), Value(0), Value(0), Value(0), Value(0))
	d.Type = "FixedDisplacement"
	return d
}

// NewPinnedDisplacement restrains the three translations.
func NewPinnedDisplacement(name string, nodes Selection) *Displacement {
	d := NewGeneralDisplacement(name, nodes, Value(0), Value(0), Value(0), nil, nil, nil)
	d.Type = "PinnedDisplacement"
	return d
}

// NewRollerDisplacementX restrains translations except along x.
func NewRollerDisplacementX(name string, nodes Selection) *Displacement {
	d := NewGeneralDisplacement(name, nodes, nil, Value(0), Value(0), nil, nil, nil)
	d.Type = "RollerDisplacementX"
	return d
}

// NewRollerDisplacementY restrains translations except along y.
func NewRollerDisplacementY(name string, nodes Selection) *Displacement {
	d := NewGeneralDisplacement(name, nodes, Value(0), nil, Value(0), nil, nil, nil)
	d.Type = "RollerDisplacementY"
	return d
}

// NewRollerDisplacementZ restrains translations except along z.
func NewRollerDisplacementZ(name string, nodes Selection) *Displacement {
	d := NewGeneralDisplacement(name, nodes, Value(0), Value(0), nil, nil, nil, nil)
	d.Type = "RollerDisplacementZ"
	return d
}

// Load is a named load applied to nodes or elements.
type Load struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Nodes      Selection  `yaml:"nodes,omitempty"`
	Elements   Selection  `yaml:"elements,omitempty"`
	Components Components `yaml:"components"`
}

// NewPointLoad creates concentrated nodal forces and moments.
func NewPointLoad(name string, nodes Selection, x, y, z, xx, yy, zz *float64) *Load {
	return &Load{
		Name:       name,
		Type:       "PointLoad",
		Nodes:      nodes,
		Components: components([6]*float64{x, y, z, xx, yy, zz}),
	}
}

// NewGravityLoad creates a self-weight load on elements with
// acceleration g acting along -z.
func NewGravityLoad(name string, elements Selection, g float64) *Load {
	return &Load{
		Name:       name,
		Type:       "GravityLoad",
		Elements:   elements,
		Components: Components{"x": nil, "y": nil, "z": Value(-g)},
	}
}
