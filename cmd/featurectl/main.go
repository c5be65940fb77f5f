// featurectl - Feature List Status Updater
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/featurectl

package main

import (
	"os"

	"github.com/ariel-frischer/featurectl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
