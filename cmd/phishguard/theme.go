package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/view"
)

// NewThemeCmd creates the theme command.
func NewThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the theme stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			a.bootstrap(ctx)

			_, err = a.ctrl.LoadTheme(ctx)
			a.print(cmd.OutOrStdout(), view.Theme)
			return shown(err)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between the light and dark theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			a.bootstrap(ctx)

			// Start from the stored theme; a new process does not know it.
			if _, err := a.ctrl.LoadTheme(ctx); err != nil {
				a.print(cmd.OutOrStdout())
				return shown(err)
			}
			_, err = a.ctrl.ToggleTheme(ctx)
			a.print(cmd.OutOrStdout(), view.Theme)
			return shown(err)
		},
	})
	return cmd
}
