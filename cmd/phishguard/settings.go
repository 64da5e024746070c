package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/view"
)

// NewSettingsCmd creates the settings command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the server's detection settings",
		Long: `Settings shows the detection threshold, the ML weight and the trusted
domains. The admin password stored on the server is never displayed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				_, err := a.ctrl.LoadSettings(ctx)
				a.print(cmd.OutOrStdout(), view.Settings)
				return shown(err)
			})
		},
	}
	cmd.AddCommand(newSettingsSaveCmd())
	return cmd
}

func newSettingsSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Change detection settings",
		Long: `Save changes only the settings named by flags. Every other setting,
including fields this client does not know about, is sent back unchanged.

Examples:
  # Raise the threshold
  phishguard settings save --threshold 0.7

  # Replace the trusted domains
  phishguard settings save --trusted example.com,example.org

  # Remove every trusted domain
  phishguard settings save --trusted ""`,
		Args: cobra.NoArgs,
		RunE: runSettingsSaveCmd,
	}
	cmd.Flags().Float64("threshold", 0, "Phishing score threshold (0-1)")
	cmd.Flags().Float64("ml-weight", 0, "Weight of the ML probability in the final score (0-1)")
	cmd.Flags().StringSlice("trusted", nil, "Comma-separated trusted domains, replacing the current list")
	return cmd
}

// settingsEdit builds an edit from the flags the user actually set.
func settingsEdit(cmd *cobra.Command) (model.SettingsEdit, error) {
	var edit model.SettingsEdit
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		v, err := flags.GetFloat64("threshold")
		if err != nil {
			return edit, err
		}
		edit.Threshold = &v
	}
	if flags.Changed("ml-weight") {
		v, err := flags.GetFloat64("ml-weight")
		if err != nil {
			return edit, err
		}
		edit.MLWeight = &v
	}
	if flags.Changed("trusted") {
		v, err := flags.GetStringSlice("trusted")
		if err != nil {
			return edit, err
		}
		edit.TrustedDomains = append([]string{}, v...)
	}
	return edit, nil
}

func runSettingsSaveCmd(cmd *cobra.Command, _ []string) error {
	edit, err := settingsEdit(cmd)
	if err != nil {
		return err
	}

	return withAdmin(cmd, func(ctx context.Context, a *app) error {
		err := a.ctrl.SaveSettings(ctx, edit)
		a.print(cmd.OutOrStdout(), view.Settings)
		return shown(err)
	})
}

// NewDomainCmd creates the domain command.
func NewDomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Add or remove trusted domains",
		Long: `Domain changes one trusted domain at a time. The domain is trimmed and
lowercased before it is sent.

Examples:
  phishguard domain add Example.COM
  phishguard domain remove example.com`,
	}
	cmd.AddCommand(newDomainChangeCmd("add", "Add a trusted domain", (*controller.Controller).AddDomain))
	cmd.AddCommand(newDomainChangeCmd("remove", "Remove a trusted domain", (*controller.Controller).RemoveDomain))
	return cmd
}

func newDomainChangeCmd(use, short string, change func(*controller.Controller, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				err := change(a.ctrl, ctx, args[0])
				a.print(cmd.OutOrStdout(), view.Settings)
				return shown(err)
			})
		},
	}
}
