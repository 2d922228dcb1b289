package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/swapmatch-backend/internal/config"
)

type rootOptions struct {
	configPath string
	format     string
	env        *env
}

func (o *rootOptions) printer() printer {
	return printer{format: o.format, w: o.env.out}
}

// loadConfig reads --config, falling back to CONFIG_PATH.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return o.env.loadConfig(path)
}

func newRootCommand(e *env) *cobra.Command {
	opts := &rootOptions{env: e}

	cmd := &cobra.Command{
		Use:           "swapctl",
		Short:         "Operate the swap matching engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.format) {
				return commandError(fmt.Sprintf("invalid format %q: must be one of %v", opts.format, validFormats), nil)
			}
			return nil
		},
	}
	cmd.SetOut(e.out)

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (overrides CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(
		newDiscoverCommand(opts),
		newMaintainCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}
