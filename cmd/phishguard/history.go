package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/view"
)

// errNotConfirmed is returned when a destructive command runs without --yes.
var errNotConfirmed = errors.New("refusing to continue without --yes")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent scans",
		Long: `History shows the most recent scans of this visitor, newest first.

The server keys history by the visitor_id cookie. Set --visitor (or
server.visitor_id in the configuration file) to see the same history
across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			a.bootstrap(ctx)

			_, err = a.ctrl.LoadHistory(ctx)
			a.print(cmd.OutOrStdout(), view.History)
			return shown(err)
		},
	}
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete this visitor's scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			if !yes {
				return errNotConfirmed
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			a.bootstrap(ctx)

			err = a.ctrl.ClearHistory(ctx)
			a.print(cmd.OutOrStdout(), view.History)
			return shown(err)
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm deleting the history")
	return cmd
}
