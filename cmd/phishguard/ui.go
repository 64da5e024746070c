package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/tui"
	"github.com/nao1215/phishguard/internal/view"
)

// NewUICmd creates the ui command.
func NewUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Start the interactive terminal client",
		Long: `UI starts a full-screen client: type a URL or domain and press enter
to scan, tab to switch between the result, history and settings panes,
ctrl+t to switch the theme and ctrl+g for every key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Logs would tear the full-screen display; send them to a file
			// when verbose and drop them otherwise.
			logOut, closeLog, err := uiLogOutput(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			cmd.SetErr(logOut)

			n := &tui.Notifier{}
			a, err := newApp(cmd, view.WithObserver(n.Observe))
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			a.bootstrap(ctx)

			return tui.Run(ctx, a.ctrl, n, a.logger)
		},
	}
}

// uiLogFile is written in the data directory while ui runs with --verbose.
const uiLogFile = "ui.log"

func uiLogOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil || !verbose {
		return io.Discard, func() {}, err
	}
	dir := config.XDGDataDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, uiLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // fixed name in the data directory
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
