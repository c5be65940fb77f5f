package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/featurectl/internal/cli/shared"
	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/ariel-frischer/featurectl/internal/testutil"
	"github.com/stretchr/testify/require"
)

// workspace is an isolated feature list, config file and state directory.
type workspace struct {
	dir        string
	listPath   string
	configPath string
	stateDir   string
}

// newWorkspace isolates HOME and FEATURECTL_ variables, writes a feature
// list built from opts and a config pointing at it. extraConfig entries
// are merged into the config object.
func newWorkspace(t *testing.T, extraConfig map[string]any, opts ...testutil.FeatureListOption) *workspace {
	t.Helper()
	testutil.ClearConfigEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FEATURECTL_ASCII", "")

	dir := t.TempDir()
	ws := &workspace{
		dir:        dir,
		listPath:   testutil.CreateFeatureList(t, dir, opts...),
		configPath: filepath.Join(dir, ".featurectl", "config.json"),
		stateDir:   filepath.Join(dir, "state"),
	}

	cfg := map[string]any{
		"feature_file": ws.listPath,
		"state_dir":    ws.stateDir,
	}
	for k, v := range extraConfig {
		cfg[k] = v
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	testutil.WriteFile(t, ws.configPath, string(data))
	return ws
}

// run executes featurectl with the workspace config prepended.
func (ws *workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCommand(t, append([]string{"--config", ws.configPath}, args...)...)
}

func (ws *workspace) load(t *testing.T) feature.Collection {
	t.Helper()
	c, err := feature.Load(ws.listPath)
	require.NoError(t, err)
	return c
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, shared.ExitCode(err), fmt.Sprintf("error: %v", err))
}
