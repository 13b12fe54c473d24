// Package commands implements the fwbuild subcommands.
package commands

import (
	"fmt"

	"github.com/leapstack-labs/fwbuild/internal/cli/output"
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/spf13/cobra"
)

// getConfig returns the configuration loaded by the root command.
func getConfig() *config.Config {
	return config.GetCurrentConfig()
}

// newRenderer builds a renderer for the command's writers using the
// configured output mode.
func newRenderer(cmd *cobra.Command) *output.Renderer {
	cfg := getConfig()
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
}

// formatSize renders a byte count for human consumption.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
