// Package cli provides the command-line interface for fwbuild.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/fwbuild/internal/cli/commands"
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
)

// Version information (set at build time via -ldflags).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fwbuild",
		Short: "fwbuild - firmware build hooks",
		Long: `fwbuild runs the build-time hooks of an embedded firmware project:
it gzip-compresses the web UI assets packed into the filesystem image,
resolves the extra compiler include paths for the vendored framework, and
derives the firmware version string from git metadata.

The build orchestrator invokes it once per build phase; all hooks are
stateless and leave nothing behind except the .gz artifacts and the
build-flags file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}} (commit %s, built %s)
`, GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./fwbuild.yaml)")
	rootCmd.PersistentFlags().String("project-dir", "", "Project root directory (default: inferred from fwbuild.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Path to the web asset data directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewAssetsCommand())
	rootCmd.AddCommand(commands.NewIncludesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
