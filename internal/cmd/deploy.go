package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/sendtoftrack/internal/deploy"
	"github.com/steveyegge/sendtoftrack/internal/exitcode"
	"github.com/steveyegge/sendtoftrack/internal/lock"
	"github.com/steveyegge/sendtoftrack/internal/proc"
	"github.com/steveyegge/sendtoftrack/internal/relaunch"
	"github.com/steveyegge/sendtoftrack/internal/style"
	"github.com/steveyegge/sendtoftrack/internal/ui"
)

// Overridable in tests.
var (
	lockPath    = lock.DefaultPath
	lockTimeout = lock.DefaultTimeout
	newTable    = proc.System
	newLauncher = func() deploy.Launcher { return relaunch.ExecLauncher{} }
	newNotifier = func(out io.Writer) deploy.Notifier { return ui.NewConsole(out, os.Stdin) }
)

func runDeploy(cmd *cobra.Command, opts *options) error {
	style.SetColor(ui.ColorEnabled(os.Stdout))

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return exitcode.Usage(err)
	}
	defer closeLog()

	path := lockPath()
	lk, err := lock.Acquire(cmd.Context(), path, lockTimeout)
	if err != nil {
		var held *lock.ErrHeld
		if errors.As(err, &held) {
			return exitcode.Busy(held.Path)
		}
		// Not being able to lock is no reason to leave the user without plugins
		logger.Warn("running without lock", "path", path, "err", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Could not take run lock: %v\n", style.WarningPrefix, err)
	} else {
		defer func() { _ = lk.Unlock() }()
	}

	out := cmd.OutOrStdout()
	runner := &deploy.Runner{
		Config:   cfg,
		Table:    newTable(),
		Launcher: newLauncher(),
		Notifier: newNotifier(out),
		Out:      out,
		Logger:   logger,
		DryRun:   opts.dryRun,
	}
	if opts.dryRun {
		fmt.Fprintln(out, style.Bold.Render("Dry run: no changes will be made"))
	}

	runner.Run()
	return nil
}
