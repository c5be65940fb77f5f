package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
)

// FeatureListNotFound reports a missing feature list.
func FeatureListNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("feature list not found: %s", path),
		"Run featurectl from the directory that contains feature_list.json",
		"Or point at it with --file <path> or feature_file in the config",
	)
}

// FeatureListMalformed reports a feature list that is not a JSON array of objects.
func FeatureListMalformed(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("feature list is not valid: %s: %v", path, err),
		Remediation: []string{
			"Check the file is a JSON array of feature objects",
			"Restore it from version control if it was truncated by a failed write",
		},
		Err: err,
	}
}

// FeatureListUnreadable reports a feature list the process may not read.
func FeatureListUnreadable(path string, err error) *CLIError {
	e := NewPrerequisiteError(
		fmt.Sprintf("cannot read feature list %s: permission denied", path),
		"Check read and write permission on the file and its directory",
		"Run featurectl as the user that owns the feature list",
	)
	e.Err = err
	return e
}

// FeatureListLoadFailed picks the right message for a load failure.
func FeatureListLoadFailed(path string, err error) *CLIError {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		e := FeatureListNotFound(path)
		e.Err = err
		return e
	case stderrors.Is(err, fs.ErrPermission):
		return FeatureListUnreadable(path, err)
	default:
		return FeatureListMalformed(path, err)
	}
}

// FeatureListWriteFailed reports a failed store after in-memory updates.
func FeatureListWriteFailed(path string, err error) *CLIError {
	e := NewRuntimeError(
		fmt.Sprintf("failed to write feature list %s: %v", path, err),
		"Check disk space and write permission for the file",
		"The file may be partially written; restore it from version control before re-running",
		"Set store.atomic_write to true to write through a temp file",
	)
	e.Err = err
	return e
}

// ConfigParseError reports a config file that could not be loaded.
func ConfigParseError(path string, err error) *CLIError {
	e := NewConfigError(
		fmt.Sprintf("failed to load config %s: %v", path, err),
		"Check the file is valid JSON",
		"Check environment overrides prefixed with FEATURECTL_",
	)
	e.Err = err
	return e
}

// ConfigFileNotFound reports an explicitly requested config file that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the path given to --config",
		"Omit --config to use .featurectl/config.json when present",
	)
}

// NoTargets reports an apply run with nothing to update.
func NoTargets() *CLIError {
	return NewArgumentErrorWithUsage(
		"no target features given",
		"featurectl apply [--index N]... [--match DESCRIPTION]... [--dev]",
		"Set targets.indices or targets.descriptions in the config file",
		"Or pass --index / --match on the command line",
	)
}

// InvalidListState reports an unknown --state value.
func InvalidListState(state string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid state: %s", state),
		fmt.Sprintf("Use one of: %s", strings.Join(valid, ", ")),
	)
}

// InvalidLimit reports a negative --limit value.
func InvalidLimit(limit int) *CLIError {
	return NewArgumentError(fmt.Sprintf("limit must be positive, got %d", limit))
}
