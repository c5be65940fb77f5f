// featurectl - Feature List Status Updater
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/featurectl

// Package cli provides Cobra-based CLI commands for featurectl.
// It defines the feature commands (apply, status, list), configuration
// inspection (config show) and utility commands (history, version).
package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	"github.com/ariel-frischer/featurectl/internal/cli/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupFeatures      = shared.GroupFeatures
	GroupConfiguration = shared.GroupConfiguration
)

// NewRootCmd builds the featurectl command tree.
func NewRootCmd() *cobra.Command {
	var logger *zap.Logger

	rootCmd := &cobra.Command{
		Use:   "featurectl",
		Short: "Feature list status updater",
		Long: `Feature list status updater

Advances QA and dev completion flags in a feature_list.json, stamping
each transition with the time it happened. Flags only ever move from
false to true, so re-running an update is harmless.

Source: https://github.com/ariel-frischer/featurectl`,
		Example: `  # Mark the configured targets as passing
  featurectl apply

  # Mark features 79 and 80 as dev done and passing
  featurectl apply --index 79 --index 80 --dev

  # Show progress and what is left
  featurectl status
  featurectl list --state pending-qa`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			config := zap.NewProductionConfig()
			if debug {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cmd.SetContext(shared.WithLogger(cmd.Context(), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupFeatures, Title: "Features:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", shared.DefaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Feature list to operate on (overrides feature_file)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
	util.Register(rootCmd)

	return rootCmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	return execute(NewRootCmd())
}

func execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if err != nil {
		cliErr := clierrors.AsCLIError(err)
		if cliErr == nil {
			cliErr = clierrors.Wrap(err, clierrors.Runtime)
		}
		clierrors.FprintError(rootCmd.ErrOrStderr(), cliErr)
	}
	return err
}

// ExitCode returns the process exit code for an Execute error.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
