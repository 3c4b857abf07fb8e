// Package deploy runs the plugin update: stop the application, copy the
// bundled plugins over the installed ones, then relaunch the application
// or tell the user what to do.
//
// The steps run strictly in order and each one runs to completion. Step
// failures never abort the run; they are reported on the console and
// captured in the returned Outcome.
package deploy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/steveyegge/sendtoftrack/internal/config"
	"github.com/steveyegge/sendtoftrack/internal/constants"
	"github.com/steveyegge/sendtoftrack/internal/dirsync"
	"github.com/steveyegge/sendtoftrack/internal/proc"
	"github.com/steveyegge/sendtoftrack/internal/relaunch"
	"github.com/steveyegge/sendtoftrack/internal/style"
)

// Notifier shows the end-of-run messages that need the user's attention.
type Notifier interface {
	Notify(msg string)

	// WaitForKey blocks until the user acknowledges, e.g. by pressing a key.
	WaitForKey() error
}

// Launcher starts an executable with the given working directory without
// waiting for it.
type Launcher interface {
	Start(path, dir string) error
}

// SyncFunc copies src into dst. dirsync.Sync is the default.
type SyncFunc func(src, dst string, opts dirsync.Options) (dirsync.Result, error)

// Runner holds the collaborators of a run.
type Runner struct {
	Config   *config.Config
	Table    proc.Table
	Launcher Launcher
	Notifier Notifier

	// Out receives progress lines.
	Out io.Writer

	Logger *slog.Logger

	// Sync overrides the directory copy (tests).
	Sync SyncFunc

	// DryRun reports what would happen without killing, copying or starting
	// anything.
	DryRun bool
}

// Outcome records what happened in each step.
type Outcome struct {
	Report    proc.Report
	Sync      dirsync.Result
	SyncErr   error
	Decision  relaunch.Decision
	Launched  bool
	LaunchErr error
}

// Run executes the workflow once.
func (r *Runner) Run() Outcome {
	var out Outcome
	logger := r.logger()
	cfg := r.Config

	logger.Info("deploy starting", "process", cfg.Process, "source", cfg.Source, "dest", cfg.Dest,
		"overwrite", cfg.Overwrite.String(), "dry_run", r.DryRun)

	out.Report = r.terminate()

	r.printf("%s\n", constants.MsgCopying)
	out.Sync, out.SyncErr = r.sync()
	r.reportSync(out.Sync, out.SyncErr)

	out.Decision = relaunch.Decide(out.Report)
	logger.Info("relaunch decision", "action", out.Decision.Action.String(), "path", out.Decision.Path)
	out.Launched, out.LaunchErr = r.finish(out.Decision)

	return out
}

func (r *Runner) terminate() proc.Report {
	table := r.Table
	if r.DryRun {
		table = dryRunTable{Table: table, logger: r.logger()}
	}

	term := &proc.Terminator{
		Table:  table,
		Logger: r.logger(),
		Closing: func(pid int) {
			r.printf("%s %s %s\n", style.ArrowPrefix, constants.MsgClosing, style.Dim.Render(fmt.Sprintf("(pid %d)", pid)))
		},
	}
	rep := term.Terminate(r.Config.Process)

	for _, res := range rep.Results {
		if res.Failed() {
			r.printf("%s %v\n", style.ErrorPrefix, res.Err)
		}
	}
	if rep.Multiple() {
		r.printf("%s %d instances of %s were running; relaunching %s\n",
			style.WarningPrefix, rep.Matched(), rep.Name, style.Dim.Render(rep.Path))
	}
	return rep
}

func (r *Runner) sync() (dirsync.Result, error) {
	syncFn := r.Sync
	if syncFn == nil {
		syncFn = dirsync.Sync
	}
	return syncFn(r.Config.Source, r.Config.Dest, dirsync.Options{
		Policy:   r.Config.Overwrite,
		Progress: r.progress,
		DryRun:   r.DryRun,
	})
}

func (r *Runner) progress(e dirsync.Event) {
	switch e.Kind {
	case dirsync.EventDir:
		r.printf("Copying %s\n", e.Path)
	case dirsync.EventMissing:
		r.printf("Copying %s\n", e.Path)
		r.printf("\t%s ERR: %s\n", style.ErrorPrefix, constants.MsgSourceMissing)
	case dirsync.EventFile:
		r.logger().Debug("file copied", "path", e.Path)
	case dirsync.EventSkip:
		r.logger().Debug("file kept", "path", e.Path)
	}
}

func (r *Runner) reportSync(res dirsync.Result, err error) {
	if err != nil {
		r.logger().Error("copy failed", "err", err)
		r.printf("%s Copy failed: %v\n", style.ErrorPrefix, err)
		if errors.Is(err, fs.ErrExist) {
			r.printf("  %s\n", style.Dim.Render("Installed files are never replaced with --overwrite fail; use --overwrite overwrite or skip."))
		}
		return
	}
	if res.SourceMissing {
		return
	}

	verb := "Copied"
	if r.DryRun {
		verb = "Would copy"
	}
	line := fmt.Sprintf("%s %d files (%s)", verb, res.FilesCopied, formatSize(res.BytesCopied))
	if res.FilesSkipped > 0 {
		line += fmt.Sprintf(", kept %d existing", res.FilesSkipped)
	}
	r.printf("%s %s\n", style.SuccessPrefix, line)
}

// finish acts on the relaunch decision.
func (r *Runner) finish(d relaunch.Decision) (bool, error) {
	switch d.Action {
	case relaunch.Relaunch:
		r.printf("%s\n", constants.MsgRestarting)
		if r.DryRun {
			r.printf("  Would start: %s %s\n", d.Path, style.Dim.Render("(in "+d.Dir+")"))
			return false, nil
		}
		if err := r.Launcher.Start(d.Path, d.Dir); err != nil {
			r.logger().Error("relaunch failed", "path", d.Path, "err", err)
			r.printf("%s %v\n", style.ErrorPrefix, err)
			r.prompt(constants.MsgStartManually)
			return false, err
		}
		r.logger().Info("relaunched", "path", d.Path, "dir", d.Dir)
		return true, nil

	case relaunch.StartManually:
		r.prompt(constants.MsgStartManually)

	case relaunch.RestartManually:
		r.prompt(constants.MsgRestartFailed)
	}
	return false, nil
}

// prompt shows msg and, unless disabled, waits for a key press.
func (r *Runner) prompt(msg string) {
	if r.Notifier == nil {
		r.printf("%s\n", msg)
		return
	}
	r.Notifier.Notify(msg)
	if !r.Config.WaitForKey || r.DryRun {
		return
	}
	r.Notifier.Notify(constants.MsgPressAnyKey)
	if err := r.Notifier.WaitForKey(); err != nil {
		r.logger().Warn("waiting for key press", "err", err)
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// dryRunTable resolves processes normally but never kills them.
type dryRunTable struct {
	proc.Table
	logger *slog.Logger
}

func (t dryRunTable) Kill(pid int) error {
	t.logger.Info("dry run: not killing", "pid", pid)
	return nil
}

// formatSize formats a byte size as human-readable string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
