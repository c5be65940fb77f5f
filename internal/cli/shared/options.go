package shared

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/ariel-frischer/featurectl/internal/config"
	clierrors "github.com/ariel-frischer/featurectl/internal/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultConfigPath is the local config file read when --config is not given.
const DefaultConfigPath = ".featurectl/config.json"

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger attached to cmd's context, or a no-op logger.
func Logger(cmd *cobra.Command) *zap.Logger {
	if ctx := cmd.Context(); ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.NewNop()
}

// LoadConfig loads configuration from the --config path and applies the
// --file override. Failures are returned as configuration errors. A
// missing default config file means defaults; a missing file named with
// --config does not.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath := DefaultConfigPath
	if f := cmd.Flag("config"); f != nil {
		configPath = f.Value.String()
		if f.Changed {
			if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
				return nil, clierrors.ConfigFileNotFound(configPath)
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigParseError(configPath, err)
	}

	if f := cmd.Flag("file"); f != nil && f.Changed {
		cfg.FeatureFile = f.Value.String()
	}
	return cfg, nil
}
