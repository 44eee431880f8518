package core

// Material is a named constitutive specification.
type Material struct {
	Name   string               `yaml:"name"`
	Type   string               `yaml:"type"`
	Params map[string]float64   `yaml:"params,omitempty"`
	Curves map[string][]float64 `yaml:"curves,omitempty"`
}

// NewElasticIsotropic creates a linear elastic material with Young's
// modulus E, Poisson's ratio v and density p.
func NewElasticIsotropic(name string, E, v, p float64) *Material {
	return &Material{
		Name:   name,
		Type:   "ElasticIsotropic",
		Params: map[string]float64{"E": E, "v": v, "p": p},
	}
}

// NewElasticPlastic creates an elastic material with a plastic
// stress (f) / plastic strain (e) curve.
func NewElasticPlastic(name string, E, v, p float64, f, e []float64) *Material {
	return &Material{
		Name:   name,
		Type:   "ElasticPlastic",
		Params: map[string]float64{"E": E, "v": v, "p": p},
		Curves: map[string][]float64{"f": f, "e": e},
	}
}

// Section is a named cross-section specification.
type Section struct {
	Name     string             `yaml:"name"`
	Type     string             `yaml:"type"`
	Geometry map[string]float64 `yaml:"geometry,omitempty"`
}

// NewShellSection creates a shell section of thickness t.
func NewShellSection(name string, t float64) *Section {
	return &Section{Name: name, Type: "ShellSection", Geometry: map[string]float64{"t": t}}
}

// NewRectangularSection creates a solid rectangular section.
func NewRectangularSection(name string, b, h float64) *Section {
	return &Section{Name: name, Type: "RectangularSection", Geometry: map[string]float64{"b": b, "h": h}}
}

// NewTrapezoidalSection creates a solid trapezoidal section.
func NewTrapezoidalSection(name string, b1, b2, h float64) *Section {
	return &Section{Name: name, Type: "TrapezoidalSection", Geometry: map[string]float64{"b1": b1, "b2": b2, "h": h}}
}

// ElementProperties binds a material and a section to elements, given
// as element set names and/or explicit element keys.
type ElementProperties struct {
	Name        string   `yaml:"name"`
	Material    string   `yaml:"material"`
	Section     string   `yaml:"section"`
	ElementSets []string `yaml:"elsets,omitempty"`
	Elements    []int    `yaml:"elements,omitempty"`
}

// Record is a named, uninterpreted specification. Constraints,
// interactions and misc objects are stored as records.
type Record struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params,omitempty"`
}
