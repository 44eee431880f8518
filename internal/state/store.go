// Package state records analysis runs and their extracted results in
// SQLite.
package state

import (
	"time"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one write → run → extract invocation.
type Run struct {
	ID          string       `json:"id"`
	Model       string       `json:"model"`
	Solver      string       `json:"solver"`
	Status      RunStatus    `json:"status"`
	CPUs        int          `json:"cpus"`
	License     core.License `json:"license"`
	ExitCode    *int         `json:"exit_code,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Store persists runs and results.
type Store interface {
	CreateRun(model, solver string, cpus int, license core.License) (*Run, error)
	CompleteRun(id string, status RunStatus, exitCode *int, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	SaveResults(runID string, results core.Results) (int, error)
	LoadResults(runID string) (core.Results, error)
	Close() error
}
