package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/config"
)

// NewRootCmd creates the root command for phishguard.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishguard",
		Short: "Client for the PhishGuard phishing-detection server",
		Long: `phishguard is a client for a PhishGuard phishing-detection server.

It submits URLs, domains or files for scanning and displays the verdict,
the per-model probabilities and the reasons. It also shows the scan history
and drives the admin operations: detection settings, trusted domains,
training data and history moderation.

Settings are read from .phishguard in the current or home directory, or
config.yaml in the XDG config directory. Flags override the file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("json-logs", false, "Write logs as JSON lines")
	pf.StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")
	pf.StringP("server", "s", "", "PhishGuard server URL (default "+config.DefaultServerURL+")")
	pf.String("profile", "", "Route profile: portal or admin (default "+config.DefaultRouteProfile+")")
	pf.StringP("format", "f", "", "Output format: text, markdown, json or html (default text)")
	pf.DurationP("timeout", "t", 0, "Per-request timeout (default 30s)")
	pf.String("proxy", "", "SOCKS5 proxy address (host:port)")
	pf.String("visitor", "", "Visitor ID cookie to reuse a scan history")
	pf.Float64("rate", 0, "Maximum requests per second (0 disables pacing)")
	pf.Bool("journal", false, "Record request metadata in the local journal")
	pf.Bool("login", false, "Sign in as admin before running the command")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewDomainCmd())
	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewThemeCmd())
	cmd.AddCommand(NewAdminCmd())
	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewJournalCmd())
	cmd.AddCommand(NewUICmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var se *shownError
		if !errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
