package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/config"
)

//go:embed templates/phishguard.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new phishguard configuration file",
		Long: `Initialize creates a new .phishguard configuration file in the current directory.

The generated file includes:
- The server URL, timeout and route profile
- Commented examples for proxies, headers and route overrides
- The history, output and journal settings

Examples:
  # Create .phishguard in current directory
  phishguard init

  # Create config file at a specific path
  phishguard init -o ~/.config/phishguard/config.yaml

  # Force overwrite existing file
  phishguard init --force`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().Bool("force", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/phishguard.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - The server URL and route profile")
	fmt.Fprintln(out, "  - A visitor ID to keep history across runs")
	fmt.Fprintln(out, "  - Proxy, headers and request pacing")

	return nil
}
