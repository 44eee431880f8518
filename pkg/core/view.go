package core

// Model is the read-only view of a structure handed to solvers.
// Implementations return internal maps; callers must not mutate them.
type Model interface {
	Name() string
	Path() string
	Tolerance() int

	Nodes() map[int]*Node
	Elements() map[int]*Element
	Sets() map[string]*Set
	Materials() map[string]*Material
	Sections() map[string]*Section
	ElementProperties() map[string]*ElementProperties
	Displacements() map[string]*Displacement
	Loads() map[string]*Load
	Steps() map[string]*Step
	StepsOrder() []string
	Constraints() map[string]*Record
	Interactions() map[string]*Record
	Misc() map[string]*Record
}
