package config

import (
	"fmt"
	"sort"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeIntList
	TypeStringList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeIntList:
		return "[]int"
	case TypeStringList:
		return "[]string"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path        string          // Dotted key path (e.g., "targets.indices")
	Type        ConfigValueType // Expected value type
	Description string          // Human-readable description for help text
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"feature_file": {
		Path:        "feature_file",
		Type:        TypeString,
		Description: "Path to the feature list JSON file",
	},
	"expected_total": {
		Path:        "expected_total",
		Type:        TypeInt,
		Description: "Feature count used for progress percentages (0 = actual length)",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for the apply run history",
	},
	"targets.indices": {
		Path:        "targets.indices",
		Type:        TypeIntList,
		Description: "Feature indices advanced by apply, in order",
	},
	"targets.descriptions": {
		Path:        "targets.descriptions",
		Type:        TypeStringList,
		Description: "Feature descriptions advanced by apply (exact match)",
	},
	"targets.mark_dev_done": {
		Path:        "targets.mark_dev_done",
		Type:        TypeBool,
		Description: "Also mark targets as dev done",
	},
	"store.atomic_write": {
		Path:        "store.atomic_write",
		Type:        TypeBool,
		Description: "Write the feature list through a temp file and rename",
	},
	"history.enabled": {
		Path:        "history.enabled",
		Type:        TypeBool,
		Description: "Record apply runs in the history journal",
	},
	"history.max_entries": {
		Path:        "history.max_entries",
		Type:        TypeInt,
		Description: "Maximum number of history entries to retain",
	},
}

// ErrUnknownKey is returned for a key not in KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown configuration key: %s", e.Key)
}

// GetKeySchema returns the schema for path.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key paths in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the effective value of every known key.
func (c *Configuration) Values() map[string]interface{} {
	return map[string]interface{}{
		"feature_file":          c.FeatureFile,
		"expected_total":        c.ExpectedTotal,
		"state_dir":             c.StateDir,
		"targets.indices":       c.Targets.Indices,
		"targets.descriptions":  c.Targets.Descriptions,
		"targets.mark_dev_done": c.Targets.MarkDevDone,
		"store.atomic_write":    c.Store.AtomicWrite,
		"history.enabled":       c.History.Enabled,
		"history.max_entries":   c.History.MaxEntries,
	}
}
