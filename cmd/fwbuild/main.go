// Package main provides the fwbuild CLI, the build-time hooks of the
// firmware project.
package main

import (
	"os"

	"github.com/leapstack-labs/fwbuild/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
