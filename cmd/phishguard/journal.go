package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/journal"
)

// defaultJournalLimit is how many entries journal shows without --limit.
const defaultJournalLimit = 20

// NewJournalCmd creates the journal command.
func NewJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recorded request metadata",
		Long: `Journal shows the requests recorded while --journal (or journal.enabled
in the configuration file) was on: method, path, status, latency and the
X-Request-ID sent to the server. Bodies and cookies are never recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return withJournal(cmd, func(cfg *config.Config, j *journal.Journal) error {
				entries, err := j.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if cfg.Format == config.FormatJSON {
					return writeJSON(cmd.OutOrStdout(), entries)
				}
				return writeEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().IntP("limit", "n", defaultJournalLimit, "Number of entries to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Per-path request counts, failures and average latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(cmd, func(cfg *config.Config, j *journal.Journal) error {
				stats, err := j.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if cfg.Format == config.FormatJSON {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				return writeStats(cmd.OutOrStdout(), stats)
			})
		},
	})

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			age, err := cmd.Flags().GetDuration("older-than")
			if err != nil {
				return err
			}
			return withJournal(cmd, func(_ *config.Config, j *journal.Journal) error {
				n, err := j.Prune(cmd.Context(), age)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d journal entries\n", n)
				return nil
			})
		},
	}
	prune.Flags().Duration("older-than", 30*24*time.Hour, "Age of the oldest entry to keep")
	cmd.AddCommand(prune)

	return cmd
}

// withJournal opens the existing journal and runs fn.
func withJournal(cmd *cobra.Command, fn func(cfg *config.Config, j *journal.Journal) error) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	j, err := journal.Open(cfg.JournalDir, journal.Options{})
	if err != nil {
		return err
	}
	defer j.Close()
	return fn(cfg, j)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEntries(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tMETHOD\tPATH\tSTATUS\tLATENCY\tREQUEST ID")
	for _, e := range entries {
		status := fmt.Sprint(e.Status)
		if e.Error != "" {
			status = "error: " + e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Method, e.Path, status,
			e.Latency.Round(time.Millisecond), e.RequestID)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, stats []journal.PathStat) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tREQUESTS\tFAILURES\tAVG LATENCY")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Path, s.Requests, s.Failures, s.AvgLatency.Round(time.Millisecond))
	}
	return tw.Flush()
}
