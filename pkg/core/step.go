package core

// Step is a named analysis stage. Displacement and load names are
// resolved lazily, when the model is translated for a solver.
type Step struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Displacements []string `yaml:"displacements,omitempty"`
	Loads         []string `yaml:"loads,omitempty"`
	Increments    int      `yaml:"increments,omitempty"`
	Factor        float64  `yaml:"factor,omitempty"`
	NLGeom        bool     `yaml:"nlgeom,omitempty"`
}

// NewGeneralStep creates a static step with default increments.
func NewGeneralStep(name string, displacements, loads []string) *Step {
	return &Step{
		Name:          name,
		Type:          "GeneralStep",
		Displacements: displacements,
		Loads:         loads,
		Increments:    100,
		Factor:        1.0,
	}
}

// License is the solver license tier.
type License string

// License tiers.
const (
	LicenseStudent  License = "student"
	LicenseResearch License = "research"
)

// Restricted reports whether the tier limits parallelism.
func (l License) Restricted() bool {
	return l == LicenseStudent
}

// Valid reports whether l is a known tier.
func (l License) Valid() bool {
	return l == LicenseStudent || l == LicenseResearch
}
