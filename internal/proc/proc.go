// Package proc finds running processes by image name and force-stops them.
//
// Every matched process yields one Result; failures are recorded per
// process and never abort the loop. A Report reduces the results into the
// single failure flag and captured executable path the deploy workflow
// branches on.
package proc

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
)

// Process is a matched OS process.
type Process struct {
	PID  int
	Path string
}

// Step names the stage at which handling a process failed.
type Step string

const (
	StepNone   Step = ""
	StepLookup Step = "lookup" // the process table could not be queried
	StepPath   Step = "path"   // the executable path could not be read
	StepKill   Step = "kill"   // the kill was rejected
)

// Result is the outcome of handling one process.
type Result struct {
	Process Process
	Step    Step
	Err     error
}

// Failed reports whether handling this process failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Table is an OS process table.
type Table interface {
	// Find returns the PIDs of running processes whose image name matches
	// name. The calling process and its parent are never returned.
	Find(name string) ([]int, error)

	// ExePath returns the absolute path of the process's executable.
	ExePath(pid int) (string, error)

	// Kill terminates the process immediately.
	Kill(pid int) error
}

// Terminator kills every instance of a named process.
type Terminator struct {
	Table Table

	// Closing, if set, is called before each matched process is handled.
	Closing func(pid int)

	Logger *slog.Logger
}

// Terminate finds all processes named name and force-stops each of them.
// It never returns an error: failures end up in the report.
func (t *Terminator) Terminate(name string) Report {
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pids, err := t.Table.Find(name)
	if err != nil {
		logger.Warn("process lookup failed", "name", name, "err", err)
		return Reduce(name, []Result{{Step: StepLookup, Err: fmt.Errorf("listing processes: %w", err)}})
	}
	logger.Debug("process lookup", "name", name, "matches", len(pids))

	results := make([]Result, 0, len(pids))
	for _, pid := range pids {
		if t.Closing != nil {
			t.Closing(pid)
		}
		r := t.stop(pid)
		if r.Failed() {
			logger.Warn("process not stopped", "pid", pid, "step", r.Step, "err", r.Err)
		} else {
			logger.Info("process stopped", "pid", pid, "path", r.Process.Path)
		}
		results = append(results, r)
	}
	return Reduce(name, results)
}

// stop reads the executable path, then kills. A path failure skips the kill.
func (t *Terminator) stop(pid int) Result {
	r := Result{Process: Process{PID: pid}}

	path, err := t.Table.ExePath(pid)
	if err != nil {
		r.Step = StepPath
		r.Err = fmt.Errorf("reading executable path of pid %d: %w", pid, err)
		return r
	}
	r.Process.Path = path

	if err := t.Table.Kill(pid); err != nil {
		r.Step = StepKill
		r.Err = fmt.Errorf("killing pid %d: %w", pid, err)
	}
	return r
}

// matchImage reports whether an executable base name refers to the process
// name. A trailing ".exe" is ignored; fold compares case-insensitively.
func matchImage(image, name string, fold bool) bool {
	if image == "" || name == "" {
		return false
	}
	if len(image) > 4 && strings.EqualFold(image[len(image)-4:], ".exe") {
		image = image[:len(image)-4]
	}
	if fold {
		caser := cases.Fold()
		return caser.String(image) == caser.String(name)
	}
	return image == name
}
