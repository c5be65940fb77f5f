package util

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/featurectl/internal/build"
	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information",
		Long:    "Display version, commit, build date and Go runtime information for featurectl.",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintln(out, build.Version)
				return
			}
			fmt.Fprintf(out, "featurectl %s\n", build.Version)
			fmt.Fprintf(out, "  commit:   %s\n", build.Commit)
			fmt.Fprintf(out, "  built:    %s\n", build.BuildDate)
			fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
			fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().Bool("plain", false, "Print only the version string")
	return cmd
}
