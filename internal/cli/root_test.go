package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfea/internal/cli/config"
	"github.com/leapstack-labs/leapfea/internal/cli/testutil"
)

// writeResults is a solver stand-in producing one displacement value.
const writeResults = `printf 'step,category,field,key,value\nStructure from Mesh,nodal,ux,0,0.25\nStructure from Mesh,nodal,rfx,0,-500\n' > panel-results.csv`

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	root := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell command")
	}
}

type runJSON struct {
	Run struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		CPUs     int    `json:"cpus"`
		ExitCode *int   `json:"exit_code"`
	} `json:"run"`
}

func TestVersion(t *testing.T) {
	out, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "leapfea v"+Version)
}

func TestSolvers(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")
	out, _, err := executeCommand(t, "solvers", "--config", filepath.Join(dir, "leapfea.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "generic")
	testutil.AssertNoANSI(t, out)
}

func TestSummary(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")
	out, _, err := executeCommand(t, "summary", filepath.Join(dir, "panel.yaml"),
		"--config", filepath.Join(dir, "leapfea.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Structure: panel")
	assert.Contains(t, out, "Nodes: 6")
	assert.Contains(t, out, "Elements: 2")
}

func TestAnalyse_EndToEnd(t *testing.T) {
	skipOnWindows(t)
	dir := testutil.SetupTestProject(t, "fields: [u, rf]\n")
	cfgPath := filepath.Join(dir, "leapfea.yaml")

	out, _, err := executeCommand(t, "analyse", filepath.Join(dir, "panel.yaml"),
		"--config", cfgPath, "--command", writeResults, "--cpus", "2", "--output", "json")
	require.NoError(t, err)

	var res runJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "completed", res.Run.Status)
	assert.Equal(t, 2, res.Run.CPUs)
	require.NotNil(t, res.Run.ExitCode)
	assert.Equal(t, 0, *res.Run.ExitCode)
	assert.FileExists(t, filepath.Join(dir, "out", "panel.yaml"))

	out, _, err = executeCommand(t, "runs", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, res.Run.ID)
	assert.Contains(t, out, "completed")

	out, _, err = executeCommand(t, "results", res.Run.ID, "--config", cfgPath, "--field", "ux")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "| Structure from Mesh | nodal | ux | 0 | 0.25 |")
	assert.NotContains(t, out, "rfx")
}

func TestAnalyse_StudentLicenseUsesOneCPU(t *testing.T) {
	skipOnWindows(t)
	dir := testutil.SetupTestProject(t, "license: student\n")

	out, _, err := executeCommand(t, "analyse", filepath.Join(dir, "panel.yaml"),
		"--config", filepath.Join(dir, "leapfea.yaml"), "--command", writeResults, "--cpus", "8", "-o", "json")
	require.NoError(t, err)

	var res runJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Run.CPUs)
}

func TestAnalyse_SolverFailureIsRecorded(t *testing.T) {
	skipOnWindows(t)
	dir := testutil.SetupTestProject(t, "")
	cfgPath := filepath.Join(dir, "leapfea.yaml")

	_, _, err := executeCommand(t, "analyse", filepath.Join(dir, "panel.yaml"),
		"--config", cfgPath, "--command", "echo diverged; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with status 3")

	out, _, err := executeCommand(t, "runs", "--config", cfgPath, "-o", "json")
	require.NoError(t, err)
	var runs []struct {
		Status   string `json:"status"`
		ExitCode *int   `json:"exit_code"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
	require.NotNil(t, runs[0].ExitCode)
	assert.Equal(t, 3, *runs[0].ExitCode)
}

func TestAnalyse_UnknownSolverFailsEarly(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")

	_, _, err := executeCommand(t, "analyse", filepath.Join(dir, "panel.yaml"),
		"--config", filepath.Join(dir, "leapfea.yaml"), "--solver", "abaqus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported solver "abaqus"`)
	assert.NoFileExists(t, filepath.Join(dir, "state.db"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "panel.yaml"))
}

func TestResults_UnknownRun(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")
	_, _, err := executeCommand(t, "results", "missing", "--config", filepath.Join(dir, "leapfea.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Info("hidden")
	newLogger(&buf, false).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, true).Debug("details")
	assert.Contains(t, buf.String(), "details")
}
