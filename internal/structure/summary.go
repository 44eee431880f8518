package structure

import (
	"fmt"
	"io"
	"strings"
)

// Summary writes an overview of the structure contents.
func (s *Structure) Summary(w io.Writer) error {
	var b strings.Builder
	title := "Structure: " + s.name
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("-", len(title)))
	fmt.Fprintf(&b, "Nodes: %d\n", s.NodeCount())
	fmt.Fprintf(&b, "Elements: %d\n", s.ElementCount())

	sections := []struct {
		label string
		names []string
	}{
		{"Sets", s.sets.Names()},
		{"Materials", s.materials.Names()},
		{"Sections", s.sections.Names()},
		{"Element properties", s.properties.Names()},
		{"Displacements", s.displacements.Names()},
		{"Loads", s.loads.Names()},
		{"Constraints", s.constraints.Names()},
		{"Interactions", s.interactions.Names()},
		{"Misc", s.misc.Names()},
	}
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s: %d\n", sec.label, len(sec.names))
		for _, name := range sec.names {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	fmt.Fprintf(&b, "\nSteps: %d\n", s.steps.Len())
	for i, name := range s.stepsOrder {
		fmt.Fprintf(&b, "  %d: %s\n", i, name)
	}
	if steps := s.results.Steps(); len(steps) > 0 {
		fmt.Fprintf(&b, "\nResults: %s\n", strings.Join(steps, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
