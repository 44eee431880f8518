// Package snapshot persists a whole structure as a versioned YAML
// document at path/name.obj.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfea/internal/structure"
	"github.com/leapstack-labs/leapfea/pkg/core"
)

// Version is the document version written by Save.
const Version = 1

// Ext is the snapshot file extension.
const Ext = ".obj"

// ErrUnsupportedVersion is returned when loading a document written by
// an unknown format version.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Document is the serialized form of a structure.
type Document struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name"`
	Tol     int    `yaml:"tol"`

	Nodes             map[int]*core.Node                 `yaml:"nodes,omitempty"`
	Elements          map[int]*core.Element              `yaml:"elements,omitempty"`
	Sets              map[string]*core.Set               `yaml:"sets,omitempty"`
	Materials         map[string]*core.Material          `yaml:"materials,omitempty"`
	Sections          map[string]*core.Section           `yaml:"sections,omitempty"`
	ElementProperties map[string]*core.ElementProperties `yaml:"element_properties,omitempty"`
	Displacements     map[string]*core.Displacement      `yaml:"displacements,omitempty"`
	Loads             map[string]*core.Load              `yaml:"loads,omitempty"`
	Steps             map[string]*core.Step              `yaml:"steps,omitempty"`
	StepsOrder        []string                           `yaml:"steps_order,omitempty"`
	Constraints       map[string]*core.Record            `yaml:"constraints,omitempty"`
	Interactions      map[string]*core.Record            `yaml:"interactions,omitempty"`
	Misc              map[string]*core.Record            `yaml:"misc,omitempty"`
	Results           core.Results                       `yaml:"results,omitempty"`
}

// FromStructure builds the document of s.
func FromStructure(s *structure.Structure) *Document {
	c := s.Contents()
	return &Document{
		Version:           Version,
		Name:              s.Name(),
		Tol:               s.Tolerance(),
		Nodes:             c.Nodes,
		Elements:          c.Elements,
		Sets:              c.Sets,
		Materials:         c.Materials,
		Sections:          c.Sections,
		ElementProperties: c.ElementProperties,
		Displacements:     c.Displacements,
		Loads:             c.Loads,
		Steps:             c.Steps,
		StepsOrder:        c.StepsOrder,
		Constraints:       c.Constraints,
		Interactions:      c.Interactions,
		Misc:              c.Misc,
		Results:           c.Results,
	}
}

// Structure rebuilds a structure from the document. opts.Tolerance is
// ignored in favour of the stored tolerance.
func (d *Document) Structure(path string, opts structure.Options) (*structure.Structure, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	opts.Tolerance = structure.Tol(d.Tol)
	return structure.Restore(path, d.Name, structure.Contents{
		Nodes:             d.Nodes,
		Elements:          d.Elements,
		Sets:              d.Sets,
		Materials:         d.Materials,
		Sections:          d.Sections,
		ElementProperties: d.ElementProperties,
		Displacements:     d.Displacements,
		Loads:             d.Loads,
		Steps:             d.Steps,
		StepsOrder:        d.StepsOrder,
		Constraints:       d.Constraints,
		Interactions:      d.Interactions,
		Misc:              d.Misc,
		Results:           d.Results,
	}, opts)
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Unmarshal decodes a YAML document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &d, nil
}

// FileName returns the snapshot file of a structure.
func FileName(s *structure.Structure) string {
	return filepath.Join(s.Path(), s.Name()+Ext)
}

// Save writes the snapshot of s to path/name.obj and returns the file name.
func Save(s *structure.Structure) (string, error) {
	file := FileName(s)
	data, err := FromStructure(s).Marshal()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	s.Logger().Info("saved snapshot", "file", file)
	return file, nil
}

// Load reads a snapshot file. The structure path is the directory of
// the file.
func Load(file string, opts structure.Options) (*structure.Structure, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	d, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(file), Ext)
	}
	s, err := d.Structure(filepath.Dir(file), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return s, nil
}
