// Package util provides the history and version commands.
package util

import "github.com/spf13/cobra"

// Register adds all util commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())
}
