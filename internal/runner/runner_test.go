package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/leapfea/internal/testutil"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

// Output streaming must not outlive Execute.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
}

func TestExecute_Success(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := New(testutil.NewTestLogger(t))

	out, err := r.Execute(context.Background(), solver.Command{
		Name: "sh",
		Args: []string{"-c", "echo solving; echo warn >&2; touch result.csv"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.FileExists(t, filepath.Join(dir, "result.csv"))
}

func TestExecute_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "job.log"), nil, 0o644))
	r := New(nil)

	out, err := r.Execute(context.Background(), solver.Command{
		Shell:   "echo first; echo 'singular matrix' >&2; exit 3",
		Dir:     dir,
		Scratch: []string{"*.log"},
	})

	var perr *ProcessError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 3, perr.ExitCode)
	assert.Contains(t, perr.Tail, "singular matrix")
	assert.Contains(t, perr.Error(), "status 3")
	assert.Equal(t, 3, out.ExitCode)
	assert.FileExists(t, filepath.Join(dir, "job.log"), "scratch kept after failure")
}

func TestExecute_LaunchFailure(t *testing.T) {
	r := New(nil)
	_, err := r.Execute(context.Background(), solver.Command{Name: "leapfea-no-such-binary", Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")

	var perr *ProcessError
	assert.False(t, errors.As(err, &perr))
}

func TestExecute_EmptyCommand(t *testing.T) {
	_, err := New(nil).Execute(context.Background(), solver.Command{})
	assert.EqualError(t, err, "command is required")
}

func TestExecute_Environment(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	_, err := New(nil).Execute(context.Background(), solver.Command{
		Shell: `printf "%s" "$LEAPFEA_CPUS" > cpus.txt`,
		Dir:   dir,
		Env:   []string{"LEAPFEA_CPUS=4"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cpus.txt"))
	require.NoError(t, err)
	assert.Equal(t, "4", string(data))
}

func TestExecute_CleanupAfterSuccess(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	out, err := New(nil).Execute(context.Background(), solver.Command{
		Shell:   "touch model.log model.tmp1 model.tmp2 keep.csv",
		Dir:     dir,
		Scratch: []string{"model.log", "model.tmp*"},
	})
	require.NoError(t, err)
	assert.Len(t, out.Removed, 3)
	assert.NoFileExists(t, filepath.Join(dir, "model.log"))
	assert.NoFileExists(t, filepath.Join(dir, "model.tmp1"))
	assert.FileExists(t, filepath.Join(dir, "keep.csv"))
}

func TestExecute_Canceled(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Execute(ctx, solver.Command{Shell: "sleep 5", Dir: t.TempDir()})
	require.Error(t, err)
}

func TestExecute_LongLineIsDrained(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := New(nil).Execute(ctx, solver.Command{
		Shell: `head -c 2097152 /dev/zero | tr '\0' a; echo; echo done; exit 4`,
		Dir:   t.TempDir(),
	})

	var perr *ProcessError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 4, perr.ExitCode)
	require.Len(t, perr.Tail, 2)
	assert.Len(t, perr.Tail[0], MaxLineBytes)
	assert.Equal(t, "done", perr.Tail[1])
}

func TestExecute_CancelKillsChildren(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(nil).Execute(ctx, solver.Command{
		Shell: "sleep 30 & sleep 30; wait",
		Dir:   t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), DefaultWaitDelay)
}

func TestExecute_OrphanHoldingOutput(t *testing.T) {
	skipOnWindows(t)
	r := New(nil)
	r.waitDelay = 200 * time.Millisecond

	start := time.Now()
	out, err := r.Execute(context.Background(), solver.Command{
		Shell: "sleep 3 & echo started",
		Dir:   t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestStream_TruncatesAndKeepsCarriageReturns(t *testing.T) {
	tl := newTail(5)
	r := New(nil)
	input := strings.Repeat("x", MaxLineBytes+10) + "\n10%\r20%\r30%\nlast"

	require.NoError(t, r.stream(strings.NewReader(input), "stdout", tl))

	lines := tl.lines()
	require.Len(t, lines, 3)
	assert.Len(t, lines[0], MaxLineBytes)
	assert.Equal(t, "10%\r20%\r30%", lines[1])
	assert.Equal(t, "last", lines[2])
}

func TestCleanup_BadPattern(t *testing.T) {
	_, err := Cleanup(t.TempDir(), []string{"["})
	assert.Error(t, err)
}

func TestTail_KeepsLastLines(t *testing.T) {
	tl := newTail(3)
	for _, l := range strings.Fields("a b c d e") {
		tl.add(l)
	}
	assert.Equal(t, []string{"c", "d", "e"}, tl.lines())
}
