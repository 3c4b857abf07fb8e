// Package relaunch decides whether the stopped application can be started
// again and starts it detached from this console.
package relaunch

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/steveyegge/sendtoftrack/internal/proc"
)

// Action is the outcome of Decide.
type Action int

const (
	// Relaunch starts the captured executable again.
	Relaunch Action = iota
	// StartManually: nothing was running, so there is nothing to restart.
	StartManually
	// RestartManually: at least one instance could not be stopped.
	RestartManually
)

func (a Action) String() string {
	switch a {
	case Relaunch:
		return "relaunch"
	case StartManually:
		return "start-manually"
	case RestartManually:
		return "restart-manually"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Decision is what to do after the plugin copy.
type Decision struct {
	Action Action
	Path   string // executable to start (Relaunch only)
	Dir    string // working directory (Relaunch only)
}

// Decide applies the relaunch preconditions in order: no termination
// failure, then a non-empty captured path.
func Decide(rep proc.Report) Decision {
	if rep.Failed() {
		return Decision{Action: RestartManually}
	}
	if rep.Path == "" {
		return Decision{Action: StartManually}
	}
	return Decision{Action: Relaunch, Path: rep.Path, Dir: filepath.Dir(rep.Path)}
}

// ExecLauncher starts processes with os/exec. The child is detached from
// this console and never waited on.
type ExecLauncher struct{}

// Start launches path with working directory dir and returns once the
// process has been created.
func (ExecLauncher) Start(path, dir string) error {
	cmd := exec.Command(path)
	cmd.Dir = dir
	cmd.SysProcAttr = detachedAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", path, err)
	}
	// Fire and forget
	_ = cmd.Process.Release()
	return nil
}
