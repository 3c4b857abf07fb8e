package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/steveyegge/sendtoftrack/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration a run would use, after applying the config file
and flags, in sendtoftrack.toml format.

Examples:
  sendtoftrack config
  sendtoftrack config --overwrite skip > sendtoftrack.toml`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			wait := cfg.WaitForKey
			file := config.File{
				Process:    cfg.Process,
				Source:     cfg.Source,
				Dest:       cfg.Dest,
				Overwrite:  cfg.Overwrite.String(),
				WaitForKey: &wait,
				LogLevel:   cfg.LogLevel,
				LogFile:    cfg.LogFile,
			}
			if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(file); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return nil
		},
	}
}
