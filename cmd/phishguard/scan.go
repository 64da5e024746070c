package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/view"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url-or-domain...]",
		Short: "Scan URLs, domains or a file for phishing",
		Long: `Scan submits a URL, a domain or a file to the server and shows the
verdict, the score, the per-model probabilities and the reasons.

With more than one target the scans run concurrently (see --batch) and
every successful result is shown together; failures are listed after.

Examples:
  # Scan a single URL
  phishguard scan https://paypa1-login.example/verify

  # Scan several domains, four at a time
  phishguard scan -b 4 example.com paypa1.example login-micros0ft.example

  # Scan targets listed one per line in a file
  phishguard scan --list targets.txt

  # Upload a saved page or email for scanning
  phishguard scan --file suspicious.html

  # JSON output
  phishguard scan -f json example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().String("file", "", "Upload a file for scanning")
	cmd.Flags().StringP("list", "l", "", "Read targets from a file, one per line")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent scans")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}

	targets := args
	if listPath != "" {
		listed, err := readTargets(listPath)
		if err != nil {
			return err
		}
		targets = append(targets, listed...)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	a.bootstrap(ctx)

	if len(targets) > 1 {
		_, err = a.ctrl.ScanBatch(ctx, targets)
		a.print(cmd.OutOrStdout(), view.Result)
		return shown(err)
	}

	in := controller.ScanInput{}
	if len(targets) == 1 {
		in.Domain = targets[0]
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath) //nolint:gosec // user-selected upload
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		in.File = &api.Upload{Name: filepath.Base(filePath), Data: data}
	}

	_, err = a.ctrl.SubmitScan(ctx, in)
	a.print(cmd.OutOrStdout(), view.Result)
	return shown(err)
}

// readTargets reads non-empty, non-comment lines from path.
func readTargets(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided target list
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}
