package cli

import (
	"fmt"
	"time"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	"github.com/ariel-frischer/featurectl/internal/config"
	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/ariel-frischer/featurectl/internal/history"
	"github.com/ariel-frischer/featurectl/internal/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Mark target features as passing (and optionally dev done)",
		Long: `Mark target features as passing, and as dev done with --dev.

Targets come from targets.indices and targets.descriptions in the config
file unless --index or --match is given. Indices outside the feature list
are skipped. A flag that is already true keeps its original timestamp.`,
		Example: `  # Apply the configured targets
  featurectl apply

  # Mark features 79 and 80 as dev done and passing
  featurectl apply -i 79 -i 80 --dev

  # Target by exact description and preview without writing
  featurectl apply -m "User can log in" --dry-run`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runApply,
	}
	cmd.GroupID = shared.GroupFeatures

	cmd.Flags().IntSliceP("index", "i", nil, "Feature index to advance (repeatable, overrides targets.indices)")
	cmd.Flags().StringArrayP("match", "m", nil, "Exact feature description to advance (repeatable, overrides targets.descriptions)")
	cmd.Flags().Bool("dev", false, "Also mark targets as dev done (overrides targets.mark_dev_done)")
	cmd.Flags().Bool("dry-run", false, "Compute and print changes without writing the feature list")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	logger := shared.Logger(cmd)

	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	indices, descriptions, markDevDone := applyTargets(cmd, cfg)
	if len(indices) == 0 && len(descriptions) == 0 {
		return clierrors.NoTargets()
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	start := time.Now()
	path := cfg.FeatureFile

	c, err := feature.Load(path)
	if err != nil {
		return clierrors.FeatureListLoadFailed(path, err)
	}
	logger.Debug("loaded feature list", zap.String("path", path), zap.Int("records", c.Len()))

	targets, missing := feature.ResolveTargets(c, indices, descriptions)
	plan := feature.UpdatePlan{Targets: targets, MarkDevDone: markDevDone}

	journal := newApplyJournal(cmd, cfg, logger)
	journal.start(path, targets, markDevDone)

	reporter := progress.NewReporter(cmd.OutOrStdout(), progress.DetectTerminalCapabilities())
	for _, d := range missing {
		reporter.NotFound(d)
	}

	report := feature.NewUpdater(feature.WithLogger(logger)).Apply(c, plan)

	if dryRun {
		reporter.Report(report, feature.Summarize(c, cfg.ExpectedTotal), markDevDone)
		reporter.DryRun(path)
		journal.finish(history.StatusDryRun, report.Changed(), nil, time.Since(start))
		return nil
	}

	if err := feature.Store(path, c, feature.StoreOptions{Atomic: cfg.Store.AtomicWrite}); err != nil {
		reporter.Failure(fmt.Sprintf("Failed to write %s", path))
		journal.finish(history.StatusFailed, report.Changed(), err, time.Since(start))
		return clierrors.FeatureListWriteFailed(path, err)
	}

	reporter.Report(report, feature.Summarize(c, cfg.ExpectedTotal), markDevDone)
	journal.finish(history.StatusCompleted, report.Changed(), nil, time.Since(start))
	return nil
}

// applyTargets merges command-line targets over the configured ones.
// --index and --match replace the configured lists together.
func applyTargets(cmd *cobra.Command, cfg *config.Configuration) ([]int, []string, bool) {
	indices := cfg.Targets.Indices
	descriptions := cfg.Targets.Descriptions
	if cmd.Flags().Changed("index") || cmd.Flags().Changed("match") {
		indices, _ = cmd.Flags().GetIntSlice("index")
		descriptions, _ = cmd.Flags().GetStringArray("match")
	}

	markDevDone := cfg.Targets.MarkDevDone
	if cmd.Flags().Changed("dev") {
		markDevDone, _ = cmd.Flags().GetBool("dev")
	}
	return indices, descriptions, markDevDone
}

// applyJournal records an apply run in the history file. Journal failures
// are reported as warnings and never fail the run.
type applyJournal struct {
	writer  *history.Writer
	warnOut func(format string, a ...any)
	logger  *zap.Logger
	id      string
}

func newApplyJournal(cmd *cobra.Command, cfg *config.Configuration, logger *zap.Logger) *applyJournal {
	j := &applyJournal{
		logger: logger,
		warnOut: func(format string, a ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format, a...)
		},
	}
	if cfg.History.Enabled {
		j.writer = history.NewWriter(cfg.StateDir, cfg.History.MaxEntries)
	}
	return j
}

func (j *applyJournal) start(path string, targets []int, markDevDone bool) {
	if j.writer == nil {
		return
	}
	id, err := j.writer.WriteStart("apply", path, targets, markDevDone)
	if err != nil {
		j.logger.Warn("history start failed", zap.Error(err))
		j.warnOut("Warning: failed to write history: %v\n", err)
		return
	}
	j.id = id
}

func (j *applyJournal) finish(status string, changed int, runErr error, duration time.Duration) {
	if j.writer == nil || j.id == "" {
		return
	}
	if err := j.writer.UpdateComplete(j.id, status, changed, runErr, duration); err != nil {
		j.logger.Warn("history update failed", zap.String("id", j.id), zap.Error(err))
		j.warnOut("Warning: failed to update history: %v\n", err)
	}
}
