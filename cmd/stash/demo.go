package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stash/internal/app"
)

func newDemoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [step...]",
		Short: "Replay a memo script without the TUI",
		Long: `Replay a scripted session against a fresh board and print every committed
state. Steps are write:<text>, submit, remove:<n> (1-based) and clear.
Without steps the built-in scenario runs: two memos are written and
submitted, then the first is removed.`,
		Example: `  stash demo
  stash demo "write:buy milk" submit clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.options())
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			if err := app.Demo(cmd.Context(), env, out, args); err != nil {
				return err
			}
			fmt.Fprintf(out, "events logged to %s\n", env.LogPath())
			return nil
		},
	}
}
