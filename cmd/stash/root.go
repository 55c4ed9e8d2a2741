package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/stash/internal/app"
)

// Version is the stash release.
var Version = "0.1.0"

type rootFlags struct {
	configPath string
	prefsPath  string
	logLevel   string
}

func (f *rootFlags) options() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		LogLevel:   f.logLevel,
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "stash",
		Short: "A memo board driven by an observable store",
		Long: `stash is a terminal memo board. The draft and the memo list live in one
observable store; every change is logged and shown in the activity pane.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/stash/config.toml)")
	cmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/stash/prefs.toml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	cmd.AddCommand(newDemoCmd(flags))
	return cmd
}
