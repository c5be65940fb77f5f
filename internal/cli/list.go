package cli

import (
	"fmt"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List features in a given state",
		Long: `List features by lifecycle state:

  pending-dev  not yet dev done
  pending-qa   dev done but not passing (shows qa_retry_count)
  done         passing`,
		Example: `  featurectl list
  featurectl list --state pending-qa
  featurectl list --state done -n 5`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runList,
	}
	cmd.GroupID = shared.GroupFeatures
	cmd.Flags().StringP("state", "s", string(feature.StatePendingDev), "State to list (pending-dev, pending-qa, done)")
	cmd.Flags().IntP("limit", "n", 0, "Show at most N features (0 shows all)")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	stateFlag, _ := cmd.Flags().GetString("state")
	limit, _ := cmd.Flags().GetInt("limit")

	state, err := feature.ParseState(stateFlag)
	if err != nil {
		valid := make([]string, 0, len(feature.ValidStates))
		for _, st := range feature.ValidStates {
			valid = append(valid, string(st))
		}
		return clierrors.InvalidListState(stateFlag, valid)
	}
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
	entries := feature.Filter(c, state)
	if len(entries) == 0 {
		fmt.Fprintf(out, "No %s features.\n", state)
		return nil
	}

	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for n, e := range shown {
		fmt.Fprintf(out, "%d. [%d] %s\n", n+1, e.Index, e.Record.Description())
		if state == feature.StatePendingQA {
			fmt.Fprintf(out, "   Retries: %d\n", e.Record.Int(feature.FieldQARetryCount))
		}
	}
	fmt.Fprintf(out, "\nTotal %s: %d\n", state, len(entries))
	return nil
}
