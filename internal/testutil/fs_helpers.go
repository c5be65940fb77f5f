// Package testutil provides test utilities and helpers for featurectl tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// featureFixture is one record of a generated feature list.
type featureFixture struct {
	description string
	category    string
	devDone     bool
	passes      bool
	extra       []string
}

// featureListConfig holds options for CreateFeatureList.
type featureListConfig struct {
	features []featureFixture
	fileName string
}

// FeatureListOption configures CreateFeatureList.
type FeatureListOption func(*featureListConfig)

// WithFeature appends a record with the given description and flags.
func WithFeature(description string, devDone, passes bool) FeatureListOption {
	return func(c *featureListConfig) {
		c.features = append(c.features, featureFixture{
			description: description,
			category:    "functional",
			devDone:     devDone,
			passes:      passes,
		})
	}
}

// WithPendingFeatures appends count records with all flags false.
func WithPendingFeatures(count int) FeatureListOption {
	return func(c *featureListConfig) {
		for i := 0; i < count; i++ {
			c.features = append(c.features, featureFixture{
				description: fmt.Sprintf("Feature %d works end to end", len(c.features)),
				category:    "functional",
			})
		}
	}
}

// WithExtraField adds a raw JSON field (e.g. `"qa_retry_count": 2`) to the
// most recently added record.
func WithExtraField(rawField string) FeatureListOption {
	return func(c *featureListConfig) {
		if len(c.features) == 0 {
			return
		}
		last := &c.features[len(c.features)-1]
		last.extra = append(last.extra, rawField)
	}
}

// WithFileName overrides the generated file name.
func WithFileName(name string) FeatureListOption {
	return func(c *featureListConfig) {
		c.fileName = name
	}
}

// CreateFeatureList writes a feature_list.json into dir and returns its path.
// Without options it writes three pending records.
func CreateFeatureList(t *testing.T, dir string, opts ...FeatureListOption) string {
	t.Helper()

	cfg := &featureListConfig{fileName: "feature_list.json"}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.features) == 0 {
		WithPendingFeatures(3)(cfg)
	}

	path := filepath.Join(dir, cfg.fileName)
	WriteFile(t, path, featureListJSON(cfg.features))
	return path
}

// featureListJSON renders fixtures as an indented JSON array.
func featureListJSON(features []featureFixture) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, f := range features {
		b.WriteString("  {\n")
		fmt.Fprintf(&b, "    \"category\": %q,\n", f.category)
		fmt.Fprintf(&b, "    \"description\": %q,\n", f.description)
		b.WriteString("    \"steps\": [\n      \"Step 1: open the app\"\n    ],\n")
		fmt.Fprintf(&b, "    \"passes\": %t,\n", f.passes)
		fmt.Fprintf(&b, "    \"is_dev_done\": %t", f.devDone)
		for _, extra := range f.extra {
			fmt.Fprintf(&b, ",\n    %s", extra)
		}
		b.WriteString("\n  }")
		if i < len(features)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// configEnvVars lists environment variables that override featurectl config.
var configEnvVars = []string{
	"FEATURECTL_FEATURE_FILE",
	"FEATURECTL_EXPECTED_TOTAL",
	"FEATURECTL_STATE_DIR",
	"FEATURECTL_TARGETS__INDICES",
	"FEATURECTL_TARGETS__DESCRIPTIONS",
	"FEATURECTL_TARGETS__MARK_DEV_DONE",
	"FEATURECTL_STORE__ATOMIC_WRITE",
	"FEATURECTL_HISTORY__ENABLED",
	"FEATURECTL_HISTORY__MAX_ENTRIES",
}

// ClearConfigEnv unsets featurectl environment overrides for the duration
// of the test. Uses t.Setenv semantics, so the test must not be parallel.
func ClearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range configEnvVars {
		if _, exists := os.LookupEnv(key); exists {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}
