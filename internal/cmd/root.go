// Package cmd provides the sendtoftrack command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/sendtoftrack/internal/dirsync"
	"github.com/steveyegge/sendtoftrack/internal/exitcode"
	"github.com/steveyegge/sendtoftrack/internal/style"
	"github.com/steveyegge/sendtoftrack/internal/version"
)

// options holds the values of the command-line flags.
type options struct {
	configPath string
	source     string
	dest       string
	process    string
	overwrite  dirsync.Policy
	noWait     bool
	dryRun     bool
	logLevel   string
	logFile    string
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "sendtoftrack",
		Short:   "Install the bundled ftrack Connect plugins and restart ftrack Connect",
		Version: version.String(),
		Long: `sendtoftrack updates the ftrack Connect plugins of the current user.

It runs three steps, in order:
1. Stops every running ftrack_connect_package process
2. Copies the ftrack-connect directory shipped next to this executable into
   ~/AppData/Local/ftrack/ftrack-connect-plugins
3. Starts ftrack Connect again from the same executable

If ftrack Connect was not running, or could not be stopped, you are asked to
start it yourself. Run without arguments for the default behavior.

Optional settings are read from sendtoftrack.toml next to the executable
(see 'sendtoftrack config').

Examples:
  sendtoftrack                          # Stop, copy, restart
  sendtoftrack --dry-run                # Show what would happen
  sendtoftrack --overwrite overwrite    # Replace plugin files that are already installed`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: sendtoftrack.toml next to the executable)")
	pf.StringVar(&opts.source, "source", "", "Plugin bundle to install")
	pf.StringVar(&opts.dest, "dest", "", "Installed plugin directory")
	pf.StringVar(&opts.process, "process", "", "Process name to stop and relaunch")
	pf.Var(&opts.overwrite, "overwrite", "What to do with installed files: fail, overwrite or skip")
	pf.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	pf.StringVar(&opts.logFile, "log-file", "", "Write diagnostic logs to this file instead of stderr")

	cmd.Flags().BoolVar(&opts.noWait, "no-wait", false, "Do not wait for a key press before exiting")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show what would happen without changing anything")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return exitcode.Usage(err)
	})

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return exitcode.Usage(err)
	}
	return nil
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	return execute(rootCmd)
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", style.ErrorPrefix, err)
		return exitcode.Code(err)
	}
	return exitcode.Success
}
