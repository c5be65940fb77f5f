package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	"github.com/ariel-frischer/featurectl/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect featurectl configuration",
	}
	configCmd.GroupID = shared.GroupConfiguration

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective value of every configuration key after defaults,
~/.featurectl/config.json, the local config file and FEATURECTL_
environment variables have been merged.`,
		Example: `  featurectl config show
  FEATURECTL_TARGETS__INDICES=79,80 featurectl config show`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runConfigShow,
	}
	configCmd.AddCommand(showCmd)

	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	values := cfg.Values()
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		fmt.Fprintf(out, "%-22s = %-24s # %s (%s)\n", key, formatConfigValue(values[key]), schema.Description, schema.Type)
	}
	return nil
}

func formatConfigValue(v interface{}) string {
	switch val := v.(type) {
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprint(n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprint(val)
	}
}
