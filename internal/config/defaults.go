package config

import (
	"path/filepath"

	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/ariel-frischer/featurectl/internal/history"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"feature_file":          feature.DefaultFileName,
		"expected_total":        feature.DefaultExpectedTotal,
		"state_dir":             defaultStateDir(),
		"targets.indices":       []int{},
		"targets.descriptions":  []string{},
		"targets.mark_dev_done": false,
		"store.atomic_write":    false,
		"history.enabled":       true,
		"history.max_entries":   500,
	}
}

// defaultStateDir falls back to a directory under the working directory
// when no home directory is known.
func defaultStateDir() string {
	dir, err := history.DefaultStateDir()
	if err != nil {
		return filepath.Join(".featurectl", "state")
	}
	return dir
}
