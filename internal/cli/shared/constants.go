// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import clierrors "github.com/ariel-frischer/featurectl/internal/errors"

// Command group IDs for organizing help output
const (
	GroupFeatures      = "features"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitFailure          = 1
	ExitInvalidArguments = 3
	ExitConfiguration    = 4
)

// ExitCode returns the process exit code for err. CLI errors map by
// category; anything else is a generic failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitConfiguration
		}
	}
	return ExitFailure
}
