package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/export"
	"github.com/nao1215/phishguard/internal/view"
)

// passwordEnv supplies the admin password without a prompt.
const passwordEnv = "PHISHGUARD_ADMIN_PASSWORD"

// NewAdminCmd creates the admin command.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin history moderation and sign-in",
		Long: `Admin commands moderate the scan history of all visitors.

Admin endpoints need a signed-in session. Pass --login (on any admin,
settings, domain or train command) to sign in first; the password is read
from ` + passwordEnv + ` or prompted for.`,
	}
	cmd.AddCommand(newAdminHistoryCmd())
	cmd.AddCommand(newAdminRemoveCmd())
	cmd.AddCommand(newAdminExportCmd())
	cmd.AddCommand(newAdminLoginCmd())
	return cmd
}

func newAdminHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the history of all visitors",
		Long: `History lists every visitor's scans as returned by the server.

Examples:
  phishguard admin history --verdict phishing
  phishguard admin history --user 3f2a --domain example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := historyFilter(cmd)
			if err != nil {
				return err
			}
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				_, err := a.ctrl.AdminHistory(ctx, f)
				a.print(cmd.OutOrStdout(), view.AdminHistory)
				return shown(err)
			})
		},
	}
	cmd.Flags().String("verdict", "", "Only entries with this verdict")
	cmd.Flags().String("user", "", "Only entries of this visitor ID")
	cmd.Flags().String("domain", "", "Only entries for this domain")
	return cmd
}

func historyFilter(cmd *cobra.Command) (api.HistoryFilter, error) {
	var f api.HistoryFilter
	var err error
	if f.Verdict, err = cmd.Flags().GetString("verdict"); err != nil {
		return f, err
	}
	if f.UserID, err = cmd.Flags().GetString("user"); err != nil {
		return f, err
	}
	if f.Domain, err = cmd.Flags().GetString("domain"); err != nil {
		return f, err
	}
	return f, nil
}

func newAdminRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove one history entry by its position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				err := a.ctrl.RemoveHistoryEntry(ctx, index)
				a.print(cmd.OutOrStdout(), view.AdminHistory)
				return shown(err)
			})
		},
	}
}

func newAdminExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the full history as a report",
		Long: `Export downloads every visitor's history and writes a report.
The format follows --output's extension unless --type is given.

Examples:
  # Text report to the terminal
  phishguard admin export

  # PDF report
  phishguard admin export -o history.pdf

  # Markdown with a verdict pie chart
  phishguard admin export --type markdown -o history.md`,
		Args: cobra.NoArgs,
		RunE: runAdminExportCmd,
	}
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("type", "", "Report type: text, markdown, json or pdf")
	return cmd
}

func runAdminExportCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}
	if format == "" && outputPath != "" {
		format = export.FormatForPath(outputPath)
	}
	if format == export.FormatPDF && outputPath == "" {
		return errors.New("pdf export needs --output")
	}

	return withAdmin(cmd, func(ctx context.Context, a *app) error {
		entries, err := a.ctrl.DownloadHistory(ctx)
		if err != nil {
			a.print(cmd.OutOrStdout(), view.AdminHistory)
			return shown(err)
		}
		report := export.NewHistoryReport(a.cfg.ServerURL, entries, time.Now())
		if outputPath == "" {
			w, err := export.NewWriter(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = w.Write(report)
			return err
		}
		return writeReportFile(outputPath, format, report)
	})
}

// writeReportFile writes report to path, creating parent directories.
func writeReportFile(path, format string, report *export.HistoryReport) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // user-provided output path
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	w, err := export.NewWriter(format, f)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := w.Write(report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

func newAdminLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			err = a.ctrl.Login(ctx, password)
			a.print(cmd.OutOrStdout())
			return shown(err)
		},
	}
}

// withAdmin builds the app, signs in when --login is set, and runs fn.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if err := a.signIn(ctx, cmd); err != nil {
		return err
	}
	return fn(ctx, a)
}

// signIn logs in when --login is set. A failed sign-in is printed.
func (a *app) signIn(ctx context.Context, cmd *cobra.Command) error {
	login, err := cmd.Flags().GetBool("login")
	if err != nil || !login {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	if err := a.ctrl.Login(ctx, password); err != nil {
		a.print(cmd.ErrOrStderr())
		return shown(err)
	}
	return nil
}

// readPassword takes the password from the environment, a terminal prompt,
// or the first line of stdin, in that order.
func readPassword(cmd *cobra.Command) (string, error) {
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}

	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) { //nolint:gosec // fd fits in int
		fmt.Fprint(cmd.ErrOrStderr(), "Admin password: ")
		b, err := term.ReadPassword(int(in.Fd())) //nolint:gosec // fd fits in int
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
