package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// defaultStatusLimit is how many pending features status lists per state.
const defaultStatusLimit = 10

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show feature list progress",
		Long: `Show how many features are passing and dev done, followed by the
first pending features in each state. Percentages use expected_total from
the config (the list length when it is 0).`,
		Example: `  featurectl status
  featurectl status --limit 25
  featurectl status -f other/feature_list.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runStatus,
	}
	cmd.GroupID = shared.GroupFeatures
	cmd.Flags().IntP("limit", "n", defaultStatusLimit, "Pending features to show per state (0 hides them)")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return clierrors.InvalidLimit(limit)
	}

	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := feature.Load(cfg.FeatureFile)
	if err != nil {
		return clierrors.FeatureListLoadFailed(cfg.FeatureFile, err)
	}

	out := cmd.OutOrStdout()
	stats := feature.Summarize(c, cfg.ExpectedTotal)
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", bold("Feature list:"), cfg.FeatureFile)
	fmt.Fprintf(out, "Passing: %d/%d (%.1f%%)\n", stats.Passing, stats.Total, stats.PassingPercent())
	fmt.Fprintf(out, "Dev Done: %d/%d (%.1f%%)\n", stats.DevDone, stats.Total, stats.DevDonePercent())
	fmt.Fprintf(out, "Pending DEV: %d\n", stats.PendingDev)
	fmt.Fprintf(out, "Pending QA: %d\n", stats.PendingQA)
	if stats.Len != stats.Total {
		fmt.Fprintf(out, "Records in file: %d\n", stats.Len)
	}

	if limit == 0 {
		return nil
	}
	printPending(out, "pending DEV", feature.Filter(c, feature.StatePendingDev), limit)
	printPending(out, "pending QA", feature.Filter(c, feature.StatePendingQA), limit)
	return nil
}

func printPending(out io.Writer, label string, entries []feature.Entry, limit int) {
	if len(entries) == 0 {
		return
	}
	shown := entries
	if len(shown) > limit {
		shown = shown[:limit]
	}
	fmt.Fprintf(out, "\nFirst %d %s features:\n", len(shown), label)
	for _, e := range shown {
		fmt.Fprintf(out, "  [%d] %s\n", e.Index, feature.Truncate(e.Record.Description(), 80))
	}
}
