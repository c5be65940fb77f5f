// Package config loads featurectl configuration from defaults, a global
// config file, a local config file and FEATURECTL_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
// Nested keys use a double underscore: FEATURECTL_TARGETS__INDICES.
const EnvPrefix = "FEATURECTL_"

// Configuration represents the featurectl configuration
type Configuration struct {
	FeatureFile   string        `koanf:"feature_file" validate:"required"`
	ExpectedTotal int           `koanf:"expected_total" validate:"min=0"`
	StateDir      string        `koanf:"state_dir" validate:"required"`
	Targets       TargetsConfig `koanf:"targets"`
	Store         StoreConfig   `koanf:"store"`
	History       HistoryConfig `koanf:"history"`
}

// TargetsConfig selects the records an apply run advances.
type TargetsConfig struct {
	Indices      []int    `koanf:"indices"`
	Descriptions []string `koanf:"descriptions" validate:"dive,required"`
	MarkDevDone  bool     `koanf:"mark_dev_done"`
}

// StoreConfig controls how the feature list is written back.
type StoreConfig struct {
	AtomicWrite bool `koanf:"atomic_write"`
}

// HistoryConfig controls the apply run journal.
type HistoryConfig struct {
	Enabled    bool `koanf:"enabled"`
	MaxEntries int  `koanf:"max_entries" validate:"min=0,max=100000"`
}

// GlobalConfigPath returns ~/.featurectl/config.json.
func GlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".featurectl", "config.json"), nil
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		globalPath = ""
	}
	return LoadFrom(globalPath, localConfigPath)
}

// LoadFrom is Load with an explicit global config path. Empty paths and
// files that do not exist are skipped.
func LoadFrom(globalPath, localPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if err := loadFileIfExists(k, globalPath); err != nil {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}
	if err := loadFileIfExists(k, localPath); err != nil {
		return nil, fmt.Errorf("failed to load local config: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.FeatureFile = expandHomePath(cfg.FeatureFile)

	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// empty file means defaults
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := ValidateJSONSyntaxFromBytes(data, path); err != nil {
		return err
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys
// Example: FEATURECTL_TARGETS__MARK_DEV_DONE -> targets.mark_dev_done
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
