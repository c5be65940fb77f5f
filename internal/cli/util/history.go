package util

import (
	"fmt"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/ariel-frischer/featurectl/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View apply run history",
		Long: `View a log of apply runs with timestamp, feature list, targets, status,
changed field count and duration. Entries live in history.yaml under state_dir.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig(cmd)
			if err != nil {
				return err
			}
			return runHistoryWithStateDir(cmd, cfg.StateDir)
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().Bool("clear", false, "Clear all history")
	cmd.Flags().String("status", "", "Filter by status (running, completed, dry-run, failed)")
	return cmd
}

// runHistoryWithStateDir runs the history command against stateDir.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	statusFilter, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.InvalidLimit(limit)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "clearing history",
				"Check write permission for state_dir")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "loading history",
			"Check read permission for state_dir")
	}

	entries := filterEntries(histFile.Entries, statusFilter, limit)
	if len(entries) == 0 {
		if statusFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching entries for status '%s'.\n", statusFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// filterEntries filters by status and keeps the most recent limit entries.
func filterEntries(entries []history.HistoryEntry, statusFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry
	for _, entry := range entries {
		if statusFilter != "" && entry.Status != statusFilter {
			continue
		}
		result = append(result, entry)
	}

	h := history.HistoryFile{Entries: result}
	return h.Last(limit)
}

func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")
		targets := fmt.Sprint(entry.Targets)
		if entry.MarkDevDone {
			targets += " +dev"
		}
		duration := entry.Duration
		if duration == "" {
			duration = "-"
		}

		fmt.Fprintf(out, "%s  %-30s  %s  %-10s  %3d  %-8s  %s\n",
			timestamp, cyan(entry.ID), formatStatus(entry.Status), entry.File, entry.Changed, duration, targets)
		if entry.Error != "" {
			fmt.Fprintf(out, "    error: %s\n", entry.Error)
		}
	}
}

func formatStatus(status string) string {
	padded := fmt.Sprintf("%-9s", status)
	switch status {
	case history.StatusCompleted:
		return color.GreenString(padded)
	case history.StatusDryRun, history.StatusRunning:
		return color.YellowString(padded)
	case history.StatusFailed:
		return color.RedString(padded)
	case "":
		return fmt.Sprintf("%-9s", "unknown")
	default:
		return padded
	}
}
