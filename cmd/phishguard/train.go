package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/api"
)

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Upload training data and retrain the model",
	}
	cmd.AddCommand(newTrainUploadCmd())
	cmd.AddCommand(newTrainRetrainCmd())
	return cmd
}

func newTrainUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a labelled CSV of URLs",
		Long: `Upload sends a CSV of labelled URLs to the server's training store.
The notice shows the size and a SHA3-256 digest prefix of what was sent,
so an upload can be matched against the file later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			upload := &api.Upload{Name: filepath.Base(args[0]), Data: data}
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				err := a.ctrl.UploadTrainingData(ctx, upload)
				a.print(cmd.OutOrStdout())
				return shown(err)
			})
		},
	}
}

func newTrainRetrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Retrain the model on the uploaded data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app) error {
				err := a.ctrl.RetrainModel(ctx)
				a.print(cmd.OutOrStdout())
				return shown(err)
			})
		},
	}
}
