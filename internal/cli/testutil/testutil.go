// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapfea/internal/cli/output"
)

// PanelMesh is a two-panel shell mesh pinned along one edge with a
// point load at a free corner.
const PanelMesh = `kind: mesh
vertices:
  0: {xyz: [0, 0, 0], attrs: {ux: 0, uy: 0, uz: 0}}
  1: {xyz: [1, 0, 0]}
  2: {xyz: [2, 0, 0], attrs: {l: [0, 0, -1000]}}
  3: {xyz: [0, 1, 0], attrs: {ux: 0, uy: 0, uz: 0}}
  4: {xyz: [1, 1, 0]}
  5: {xyz: [2, 1, 0]}
faces:
  0: {vertices: [0, 1, 4, 3], attrs: {E: 210000000000, v: 0.3, p: 7850, thick: 0.01}}
  1: {vertices: [1, 2, 5, 4], attrs: {E: 210000000000, v: 0.3, p: 7850, thick: 0.01}}
`

// SetupTestProject creates a temporary project holding panel.yaml and a
// leapfea.yaml with the given extra config lines. Solver output goes to
// the out/ directory and state to state.db.
func SetupTestProject(t *testing.T, extraConfig string) string {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "out"), 0o755); err != nil {
		t.Fatalf("failed to create out directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "panel.yaml"), []byte(PanelMesh), 0o644); err != nil {
		t.Fatalf("failed to create panel.yaml: %v", err)
	}

	cfg := "path: out\nstate_path: state.db\n" + extraConfig
	if err := os.WriteFile(filepath.Join(tmpDir, "leapfea.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to create leapfea.yaml: %v", err)
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer with the specified mode.
func NewTestRenderer(mode output.Mode) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
