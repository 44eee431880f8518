// Package runner executes external solver processes.
//
// A run blocks until the process exits. Standard output and standard
// error are streamed line by line to the logger while the process runs,
// and the last lines are kept for error reports. Output is always drained,
// however long its lines, and pipes held open by orphaned children are
// closed WaitDelay after the process exits or the context is done.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapfea/pkg/solver"
)

const (
	// DefaultTailLines is the number of output lines kept for error reports.
	DefaultTailLines = 20
	// DefaultWaitDelay bounds the wait for output after exit or cancel.
	DefaultWaitDelay = 5 * time.Second
	// MaxLineBytes caps a logged output line; the rest is discarded.
	MaxLineBytes = 64 * 1024
)

// ProcessError is returned when the process exits with a non-zero status.
type ProcessError struct {
	Command  string
	ExitCode int
	// Tail holds the last lines of combined output.
	Tail []string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("solver process %q exited with status %d", e.Command, e.ExitCode)
	if len(e.Tail) > 0 {
		msg += "\n" + strings.Join(e.Tail, "\n")
	}
	return msg
}

// Runner runs commands on the host.
type Runner struct {
	logger    *slog.Logger
	tailLines int
	waitDelay time.Duration
}

var _ solver.Executor = (*Runner)(nil)

// New creates a runner. A nil logger discards process output.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger, tailLines: DefaultTailLines, waitDelay: DefaultWaitDelay}
}

// Execute runs cmd to completion. A launch failure or a non-zero exit
// is an error, and scratch files are only removed after success.
func (r *Runner) Execute(ctx context.Context, cmd solver.Command) (*solver.Outcome, error) {
	if cmd.Shell == "" && cmd.Name == "" {
		return nil, errors.New("command is required")
	}
	c := r.build(ctx, cmd)

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	c.Stdout, c.Stderr = stdoutW, stderrW

	r.logger.Info("starting process", "command", cmd.String(), "dir", cmd.Dir)
	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.String(), err)
	}

	tail := newTail(r.tailLines)
	var g errgroup.Group
	g.Go(func() error { return r.stream(stdoutR, "stdout", tail) })
	g.Go(func() error { return r.stream(stderrR, "stderr", tail) })
	waitErr := c.Wait()
	stdoutW.Close()
	stderrW.Close()
	streamErr := g.Wait()

	if errors.Is(waitErr, exec.ErrWaitDelay) && ctx.Err() == nil {
		r.logger.Warn("process output left open by child processes", "command", cmd.String())
		waitErr = nil
	}
	outcome := &solver.Outcome{ExitCode: c.ProcessState.ExitCode(), Duration: time.Since(start)}
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome, fmt.Errorf("process %s: %w", cmd.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			r.logger.Warn("process failed", "command", cmd.String(), "exit_code", exitErr.ExitCode(), "duration", outcome.Duration)
			return outcome, &ProcessError{Command: cmd.String(), ExitCode: exitErr.ExitCode(), Tail: tail.lines()}
		}
		return outcome, fmt.Errorf("wait %s: %w", cmd.String(), waitErr)
	}
	if streamErr != nil {
		return outcome, fmt.Errorf("read process output: %w", streamErr)
	}
	r.logger.Info("process finished", "command", cmd.String(), "duration", outcome.Duration)

	removed, err := Cleanup(cmd.Dir, cmd.Scratch)
	outcome.Removed = removed
	if err != nil {
		return outcome, err
	}
	if len(removed) > 0 {
		r.logger.Debug("removed scratch files", "files", removed)
	}
	return outcome, nil
}

func (r *Runner) build(ctx context.Context, cmd solver.Command) *exec.Cmd {
	var c *exec.Cmd
	if cmd.Shell != "" {
		name, flag := "sh", "-c"
		if runtime.GOOS == "windows" {
			name, flag = "cmd", "/C"
		}
		c = exec.CommandContext(ctx, name, flag, cmd.Shell)
	} else {
		c = exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	}
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.WaitDelay = r.waitDelay
	setupProcessGroup(c)
	return c
}

// stream logs rd line by line until EOF. Lines longer than MaxLineBytes
// are truncated; the reader is drained either way so the process never
// blocks on a full pipe.
func (r *Runner) stream(rd io.Reader, name string, tail *tail) error {
	br := bufio.NewReader(rd)
	var (
		line      []byte
		truncated bool
	)
	emit := func() {
		text := string(line)
		tail.add(text)
		r.logger.Debug("solver output", "stream", name, "line", text, "truncated", truncated)
		line, truncated = line[:0], false
	}
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			if len(line) > 0 {
				emit()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			_, _ = io.Copy(io.Discard, br)
			return err
		}
		if room := MaxLineBytes - len(line); len(chunk) > room {
			chunk, truncated = chunk[:room], true
		}
		line = append(line, chunk...)
		if !more {
			emit()
		}
	}
}

// Cleanup removes the files in dir matching patterns and returns them.
func Cleanup(dir string, patterns []string) ([]string, error) {
	var removed []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, fmt.Errorf("scratch pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, fmt.Errorf("remove scratch file: %w", err)
			}
			removed = append(removed, m)
		}
	}
	return removed, nil
}

// tail keeps the last n lines written from several goroutines.
type tail struct {
	mu  sync.Mutex
	n   int
	buf []string
}

func newTail(n int) *tail { return &tail{n: n} }

func (t *tail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, line)
	if len(t.buf) > t.n {
		t.buf = t.buf[len(t.buf)-t.n:]
	}
}

func (t *tail) lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.buf...)
}
