package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steveyegge/sendtoftrack/internal/config"
	"github.com/steveyegge/sendtoftrack/internal/exitcode"
)

// Overridable in tests.
var (
	executableDir = config.ExecutableDir
	userHomeDir   = os.UserHomeDir
)

// resolveConfig layers defaults, the config file and explicit flags.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ErrInternal, "locating executable", err)
	}
	home, err := userHomeDir()
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ErrInternal, "locating home directory", err)
	}

	cfg := config.Defaults(exeDir, home)

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath(exeDir)
	}
	file, err := config.Load(path)
	if err != nil {
		return nil, exitcode.Usage(err)
	}
	if file == nil && opts.configPath != "" {
		return nil, exitcode.Usage(fmt.Errorf("config file not found: %s", opts.configPath))
	}
	if err := cfg.Apply(file, filepath.Dir(path), home); err != nil {
		return nil, exitcode.Usage(err)
	}

	cwd, _ := os.Getwd()
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = config.ResolvePath(opts.source, cwd, home)
	}
	if flags.Changed("dest") {
		cfg.Dest = config.ResolvePath(opts.dest, cwd, home)
	}
	if flags.Changed("process") {
		cfg.Process = opts.process
	}
	if flags.Changed("overwrite") {
		cfg.Overwrite = opts.overwrite
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = config.ResolvePath(opts.logFile, cwd, home)
	}
	if f := flags.Lookup("no-wait"); f != nil && f.Changed && opts.noWait {
		cfg.WaitForKey = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, exitcode.Usage(err)
	}
	return cfg, nil
}
